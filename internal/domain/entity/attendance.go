package entity

import "time"

// EventKind es el tipo de marcación. Su valor es el token canónico que entra en el hash.
type EventKind string

const (
	KindEntrada         EventKind = "entrada"
	KindSalida          EventKind = "salida"
	KindSalidaAlmuerzo  EventKind = "salida_almuerzo"
	KindEntradaAlmuerzo EventKind = "entrada_almuerzo"
)

// ParseEventKind valida un token recibido por la API.
func ParseEventKind(s string) (EventKind, bool) {
	switch k := EventKind(s); k {
	case KindEntrada, KindSalida, KindSalidaAlmuerzo, KindEntradaAlmuerzo:
		return k, true
	}
	return "", false
}

// Label devuelve el nombre legible del tipo de marcación.
func (k EventKind) Label() string {
	switch k {
	case KindEntrada:
		return "Entrada"
	case KindSalida:
		return "Salida"
	case KindSalidaAlmuerzo:
		return "Salida a almuerzo"
	case KindEntradaAlmuerzo:
		return "Regreso de almuerzo"
	}
	return string(k)
}

// Attendance es una marcación. Se escribe una sola vez: cualquier cambio posterior invalidaría su hash.
type Attendance struct {
	ID         string
	ActorID    string
	EmployerID string
	Kind       EventKind
	Timestamp  time.Time // generado en el servidor, UTC truncado a milisegundos
	Location   *string
	Hash       string
	Synced     bool // registrada con conexión a la base autoritativa
}

// AttendanceDetail es una marcación junto con el trabajador y el empleador vigentes (JOIN).
type AttendanceDetail struct {
	Attendance
	Actor    *Actor
	Employer *Employer
}
