// importar_equipos carga el catálogo de equipos desde un archivo CSV o XLSX
// directamente contra PostgreSQL, sin pasar por la API.
//
// Uso: go run ./cmd/importar_equipos ruta/equipos.xlsx
// La primera fila es el encabezado: codigo y tipo_de_equipos son obligatorias.
// Los CSV en Windows-1252 se convierten a UTF-8 antes de leerse.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/Equipos-api/internal/application/catalog"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/xlsx"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: importar_equipos <archivo.csv|archivo.xlsx>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
			os.Exit(1)
		}
	}

	importer := catalog.NewImporter(
		postgres.NewTxRunner(pool),
		postgres.NewEquipmentRepository(pool),
		xlsx.NewReader(),
		int64(cfg.Import.MaxBytes),
		log,
	)
	out, err := importer.Import(ctx, filepath.Base(path), f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Importados %d equipos desde %s\n", out.Imported, path)
}
