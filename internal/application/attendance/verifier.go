package attendance

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/integrity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// Verifier comprueba públicamente la autenticidad de un comprobante.
// No requiere autenticación ni expone ids internos o datos de contacto.
type Verifier struct {
	events  repository.AttendanceRepository
	metrics Metrics
	cfg     Config
}

// NewVerifier construye el verificador.
func NewVerifier(events repository.AttendanceRepository, metrics Metrics, cfg Config) *Verifier {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Verifier{events: events, metrics: metrics, cfg: cfg}
}

// Verify busca la marcación por hash y lo recalcula con los datos vigentes del trabajador
// y el empleador. Si alguno de los seis campos cambió desde la creación (por ejemplo una
// corrección de nombre), el veredicto es inválido aunque la marcación no se haya modificado.
func (v *Verifier) Verify(ctx context.Context, hash string) (*dto.VerifyResponse, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, fmt.Errorf("%w: hash requerido", domain.ErrInvalidInput)
	}

	sctx, cancel := v.cfg.storeContext(ctx)
	defer cancel()

	detail, err := v.events.GetByHash(sctx, hash)
	if err != nil {
		return nil, domain.WrapStore("buscar marcación por hash", err)
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}

	valid := false
	if detail.Actor != nil && detail.Employer != nil {
		tuple := integrity.NewTuple(detail.Actor, detail.Employer, detail.Timestamp, detail.Kind)
		valid = integrity.Verify(tuple, detail.Hash) && detail.Hash == hash
	}
	v.metrics.Verified(valid)

	return &dto.VerifyResponse{
		Valido:    valid,
		Marcacion: toVerifiedAttendance(detail),
	}, nil
}

func toVerifiedAttendance(d *entity.AttendanceDetail) dto.VerifiedAttendance {
	out := dto.VerifiedAttendance{
		TipoMarcacion: string(d.Kind),
		Timestamp:     integrity.FormatTimestamp(d.Timestamp),
	}
	if d.Actor != nil {
		out.Trabajador = dto.VerifiedWorker{Rut: d.Actor.RUT, Nombre: d.Actor.FullName()}
	}
	if d.Employer != nil {
		out.Empleador = dto.EmployerSummary{Rut: d.Employer.RUT, RazonSocial: d.Employer.RazonSocial}
	}
	return out
}
