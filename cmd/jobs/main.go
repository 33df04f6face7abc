// Package main provides the maintenance CLI: catalog import, legacy-loan
// backfill and demo seeding, runnable without the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"biblioteca_backend/internals/configs"
	database "biblioteca_backend/internals/databases"
	catalogService "biblioteca_backend/internals/features/library/catalog/service"
	backfill "biblioteca_backend/internals/features/library/jobs/backfill"
	importer "biblioteca_backend/internals/features/library/jobs/importer"
	seeds "biblioteca_backend/internals/seeds"
)

var (
	dryRun bool

	importPath      string
	importDelimiter string
	importHeaderRow int
	importClear     bool
	importDebug     bool
	colTitle        string
	colAuthor       string
	colCategory     string
	colStock        string

	seedLoans int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "jobs",
	Short:             "Tareas de mantenimiento de la biblioteca",
	Long:              "Importa el catálogo desde CSV, vincula préstamos legados y carga datos de demo.",
	PersistentPreRunE: connectDB,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "simula y revierte todos los cambios")

	importCmd.Flags().StringVar(&importPath, "file", "", "ruta del CSV (requerido)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "delimitador; vacío = auto-detectar")
	importCmd.Flags().IntVar(&importHeaderRow, "header-row", 1, "fila (1-based) con los encabezados")
	importCmd.Flags().BoolVar(&importClear, "clear", false, "borra títulos y ejemplares antes de importar")
	importCmd.Flags().BoolVar(&importDebug, "debug", false, "loguea encabezados y mapeo de columnas")
	importCmd.Flags().StringVar(&colTitle, "col-titulo", "", "nombre exacto de la columna de título")
	importCmd.Flags().StringVar(&colAuthor, "col-autor", "", "nombre exacto de la columna de autor")
	importCmd.Flags().StringVar(&colCategory, "col-categoria", "", "nombre exacto de la columna de categoría")
	importCmd.Flags().StringVar(&colStock, "col-stock", "", "nombre exacto de la columna de stock")
	_ = importCmd.MarkFlagRequired("file")

	seedCmd.Flags().IntVar(&seedLoans, "loans", 10, "cantidad de préstamos de demo")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(seedCmd)
}

var importCmd = &cobra.Command{
	Use:   "importar",
	Short: "Importa el catálogo desde un CSV",
	Long: `Lee un CSV (delimitador auto-detectado entre , ; | y tab), crea o
actualiza títulos, les asigna categoría por palabras clave y completa el
stock de ejemplares.

Ejemplo:
  jobs importar --file catalogo.csv --dry-run
  jobs importar --file catalogo.csv --col-titulo "NOMBRE DEL LIBRO"`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	opts := importer.Options{
		Path:        importPath,
		HeaderRow:   importHeaderRow,
		DryRun:      dryRun,
		Clear:       importClear,
		Debug:       importDebug,
		ColTitle:    colTitle,
		ColAuthor:   colAuthor,
		ColCategory: colCategory,
		ColStock:    colStock,
	}
	if importDelimiter != "" {
		opts.Delimiter = []rune(importDelimiter)[0]
	}

	res, err := importer.Run(database.DB, opts)
	if err != nil {
		return err
	}
	fmt.Printf("títulos creados: %d · actualizados: %d · ejemplares nuevos: %d · filas salteadas: %d\n",
		res.CreatedTitles, res.UpdatedTitles, res.CreatedExemplars, res.Skipped)
	return nil
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Vincula préstamos legados a ejemplares",
	Long: `Busca préstamos sin ejemplar asignado, resuelve el título por id o por
texto (sin distinguir mayúsculas ni acentos) y los vincula, creando el
ejemplar cuando el título no tiene ninguno.`,
	RunE: runBackfill,
}

func runBackfill(cmd *cobra.Command, args []string) error {
	res, err := backfill.Run(database.DB, dryRun)
	if err != nil {
		return err
	}
	fmt.Printf("vinculados: %d · ejemplares creados: %d · sin resolver: %d\n",
		res.Assigned, res.Created, res.Unmatched)
	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga títulos y préstamos de demo",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seeds.RunAllSeeds(database.DB, seedLoans)
	},
}

func connectDB(cmd *cobra.Command, args []string) error {
	configs.LoadEnv()
	database.ConnectDB()
	if err := database.Migrate(database.DB); err != nil {
		return fmt.Errorf("migración fallida: %w", err)
	}
	_, err := catalogService.EnsureDefaultCategory(database.DB)
	return err
}
