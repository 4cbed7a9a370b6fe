// seed_trabajadores genera un script SQL para cargar la nómina de trabajadores de un empleador
// a partir de un CSV exportado por el sistema de remuneraciones (Latin-1 o UTF-8, separador ; o ,).
//
// Columnas esperadas (con encabezado): rut, nombres, apellido_paterno, apellido_materno, email, telefono.
// La contraseña inicial de cada trabajador es el cuerpo de su RUT, sin dígito verificador.
//
// Uso: go run ./cmd/seed_trabajadores <nomina.csv> <empleador_id> [salida.sql]
// Sin archivo de salida escribe en stdout.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/marcaciones-api/internal/application/auth"
	"github.com/jhoicas/marcaciones-api/pkg/rut"
)

var columns = []string{"rut", "nombres", "apellido_paterno", "apellido_materno", "email", "telefono"}

type worker struct {
	rut, nombres, paterno, materno, email, telefono string
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: seed_trabajadores <nomina.csv> <empleador_id> [salida.sql]")
		os.Exit(2)
	}
	if _, err := uuid.Parse(os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "empleador_id inválido: %v\n", err)
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	workers, skipped, err := parseNomina(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida: %s\n", s)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 3 {
		f, err := os.Create(os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	if err := writeSQL(w, os.Args[2], workers, initialPassword); err != nil {
		fmt.Fprintf(os.Stderr, "Generar SQL: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generados %d trabajadores (%d filas omitidas)\n", len(workers), len(skipped))
}

// parseNomina decodifica el CSV y valida cada fila. Las filas inválidas se devuelven
// como mensajes en skipped, sin abortar la carga.
func parseNomina(raw []byte) (workers []worker, skipped []string, err error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = detectComma(raw)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("archivo vacío")
	}
	idx, err := headerIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool)
	for i, row := range rows[1:] {
		line := i + 2
		get := func(col string) string {
			j := idx[col]
			if j < 0 || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}
		wk := worker{
			rut:      rut.Normalize(get("rut")),
			nombres:  get("nombres"),
			paterno:  get("apellido_paterno"),
			materno:  get("apellido_materno"),
			telefono: get("telefono"),
		}
		if err := rut.Validate(wk.rut); err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		if wk.nombres == "" || wk.paterno == "" || wk.materno == "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: nombres y apellidos son obligatorios", line))
			continue
		}
		email, err := auth.NormalizeEmail(get("email"))
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		wk.email = email
		if seen[wk.rut] {
			skipped = append(skipped, fmt.Sprintf("línea %d: RUT %s repetido", line, wk.rut))
			continue
		}
		seen[wk.rut] = true
		workers = append(workers, wk)
	}
	return workers, skipped, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for _, c := range columns {
		idx[c] = -1
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := idx[key]; ok {
			idx[key] = i
		}
	}
	for _, c := range columns[:5] {
		if idx[c] < 0 {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	return idx, nil
}

// detectComma elige ';' si la primera línea lo usa (exportaciones de Excel en es-CL).
func detectComma(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func initialPassword(w worker) string {
	return strings.SplitN(w.rut, "-", 2)[0]
}

func writeSQL(out io.Writer, employerID string, workers []worker, password func(worker) string) error {
	fmt.Fprintf(out, "-- Nómina de trabajadores del empleador %s\n", employerID)
	fmt.Fprintf(out, "-- Generado por seed_trabajadores: %d registros\n\n", len(workers))
	for _, wk := range workers {
		hash, err := bcrypt.GenerateFromPassword([]byte(password(wk)), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash %s: %w", wk.rut, err)
		}
		fmt.Fprintf(out, "INSERT INTO usuarios (id, rut, nombres, apellido_paterno, apellido_materno, email, telefono, password_hash, rol, empleador_id)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', 'trabajador', '%s')\n",
			uuid.NewString(), wk.rut, escapeSQL(wk.nombres), escapeSQL(wk.paterno), escapeSQL(wk.materno),
			escapeSQL(wk.email), escapeSQL(wk.telefono), hash, employerID)
		fmt.Fprintln(out, "ON CONFLICT DO NOTHING;")
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
