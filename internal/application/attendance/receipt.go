package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una marcación.
type ReceiptUseCase struct {
	events    repository.AttendanceRepository
	generator ReceiptPDFGenerator
	cfg       Config
}

// NewReceiptUseCase construye el caso de uso inyectando el generador PDF.
func NewReceiptUseCase(events repository.AttendanceRepository, generator ReceiptPDFGenerator, cfg Config) *ReceiptUseCase {
	return &ReceiptUseCase{events: events, generator: generator, cfg: cfg}
}

// Download devuelve el PDF del comprobante y su nombre de archivo.
// Solo el dueño de la marcación o el empleador de esa marcación pueden descargarlo;
// para cualquier otro la marcación no existe (domain.ErrNotFound), igual que para un id que no es UUID.
func (uc *ReceiptUseCase) Download(ctx context.Context, claims access.Claims, eventID string) (pdfBytes []byte, filename string, err error) {
	if err := access.Authorize(claims, access.LevelWorker); err != nil {
		return nil, "", err
	}
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, "", domain.ErrNotFound
	}

	sctx, cancel := uc.cfg.storeContext(ctx)
	detail, err := uc.events.GetByID(sctx, eventID)
	cancel()
	if err != nil {
		return nil, "", domain.WrapStore("obtener marcación", err)
	}
	if detail == nil || !canSee(claims, detail) {
		return nil, "", domain.ErrNotFound
	}

	rc := buildReceipt(uc.cfg, &detail.Attendance, detail.Actor, detail.Employer)
	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, rc)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("comprobante_%s.pdf", detail.ID), nil
}

func canSee(c access.Claims, d *entity.AttendanceDetail) bool {
	if d.ActorID == c.ActorID {
		return true
	}
	return c.Role == entity.RoleEmpleador && c.HasEmployer() && c.EmployerID == d.EmployerID
}
