// seed_items carga un catálogo de ítems desde CSV, con stock inicial opcional.
//
// Uso: go run ./cmd/seed_items [ruta/catalogo.csv] [--latin1]
// Columnas: code,name,description,make,model_number,unit_price,minimum_stock,initial_stock
// Códigos ya existentes se omiten con un aviso.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/application/usecase"
	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-taller/pkg/config"
	"github.com/jhoicas/inventario-taller/pkg/logger"
)

type catalogRow struct {
	item         dto.CreateItemRequest
	initialStock int
}

func main() {
	csvPath := "catalogo.csv"
	latin1 := false
	for _, a := range os.Args[1:] {
		if a == "--latin1" {
			latin1 = true
			continue
		}
		csvPath = a
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed_items"})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(f, latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	items := usecase.NewItemUseCase(postgres.NewTxRunner(pool), inventory.Clock(time.Now), log.Component("seed"))
	created, skipped := 0, 0
	for _, r := range rows {
		out, err := items.Create(ctx, r.item)
		if errors.Is(err, domain.ErrDuplicateCode) {
			log.Warn().Str("code", r.item.Code).Msg("código existente, se omite")
			skipped++
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("code", r.item.Code).Msg("crear ítem")
		}
		if r.initialStock > 0 {
			if _, err := items.UpdateStock(ctx, out.ID, r.initialStock); err != nil {
				log.Fatal().Err(err).Str("code", r.item.Code).Msg("stock inicial")
			}
		}
		created++
	}

	fmt.Printf("Catálogo %s: %d ítems creados, %d omitidos\n", csvPath, created, skipped)
}

// parseCatalog lee el CSV con encabezado. Con latin1 el archivo se decodifica desde ISO-8859-1.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"code", "name"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("falta la columna %q", req)
		}
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []catalogRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := catalogRow{item: dto.CreateItemRequest{
			Code:        get(rec, "code"),
			Name:        get(rec, "name"),
			Description: get(rec, "description"),
			Make:        get(rec, "make"),
			ModelNumber: get(rec, "model_number"),
		}}
		if row.item.Code == "" || row.item.Name == "" {
			return nil, fmt.Errorf("línea %d: code y name son requeridos", line)
		}
		if s := get(rec, "unit_price"); s != "" {
			if row.item.UnitPrice, err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("línea %d: unit_price: %w", line, err)
			}
		}
		if row.item.MinimumStock, err = atoiOrZero(get(rec, "minimum_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: minimum_stock: %w", line, err)
		}
		if row.initialStock, err = atoiOrZero(get(rec, "initial_stock")); err != nil {
			return nil, fmt.Errorf("línea %d: initial_stock: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}
