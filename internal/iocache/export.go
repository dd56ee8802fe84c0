package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/internal/parquet"
)

// ExecuteHistoryExport exports recorded runs and samples to two Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total samples: %d\n", status.TotalSamples)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	samples, err := store.GetAllSamples()
	if err != nil {
		return fmt.Errorf("failed to retrieve samples: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	samplesFile := outputFile + ".samples.parquet"
	parquetSamples := parquet.ConvertSampleRecords(samples)
	if err := parquet.WriteSamplesParquet(parquetSamples, samplesFile); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	fmt.Printf("Exported %d samples to: %s\n", len(parquetSamples), samplesFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, Pandas (pyarrow), Spark, or any other Parquet-compatible tool.")
	return nil
}
