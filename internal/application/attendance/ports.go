package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// Receipt datos del comprobante de una marcación: se usan tanto para el correo como para el PDF.
type Receipt struct {
	EventID      string
	Kind         entity.EventKind
	KindLabel    string
	Date         string // dd-mm-aaaa en la zona configurada
	Time         string // hh:mm:ss en la zona configurada
	Location     string
	Hash         string
	WorkerRUT    string
	WorkerName   string
	EmployerRUT  string
	EmployerName string
	VerifyURL    string
}

// Notifier envía el comprobante al trabajador. Un error nunca afecta a la marcación ya persistida.
type Notifier interface {
	SendReceipt(ctx context.Context, r Receipt, to *entity.Actor) error
}

// ReceiptPDFGenerator genera la representación PDF del comprobante.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r Receipt) ([]byte, error)
}

// Metrics contadores del subsistema de marcaciones.
type Metrics interface {
	EventRecorded(kind entity.EventKind)
	Verified(valid bool)
	NotificationFailed()
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) EventRecorded(entity.EventKind) {}
func (NopMetrics) Verified(bool)                  {}
func (NopMetrics) NotificationFailed()            {}

// Config parámetros compartidos por los casos de uso de marcaciones.
type Config struct {
	StoreTimeout  time.Duration
	NotifyTimeout time.Duration
	Location      *time.Location // zona para fechas localizadas; nil = UTC
	PublicURL     string         // base del enlace de verificación
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Config) verifyURL(hash string) string {
	if c.PublicURL == "" {
		return ""
	}
	return strings.TrimRight(c.PublicURL, "/") + "/verificar?hash=" + hash
}

func (c Config) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return repository.WithTimeout(ctx, c.StoreTimeout)
}

// buildReceipt arma el comprobante con la fecha y hora localizadas.
func buildReceipt(cfg Config, ev *entity.Attendance, actor *entity.Actor, employer *entity.Employer) Receipt {
	local := ev.Timestamp.In(cfg.location())
	r := Receipt{
		EventID:   ev.ID,
		Kind:      ev.Kind,
		KindLabel: ev.Kind.Label(),
		Date:      local.Format("02-01-2006"),
		Time:      local.Format("15:04:05"),
		Hash:      ev.Hash,
		VerifyURL: cfg.verifyURL(ev.Hash),
	}
	if ev.Location != nil {
		r.Location = *ev.Location
	}
	if actor != nil {
		r.WorkerRUT = actor.RUT
		r.WorkerName = actor.FullName()
	}
	if employer != nil {
		r.EmployerRUT = employer.RUT
		r.EmployerName = employer.RazonSocial
	}
	return r
}
