package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"schemagen/internal/artifact"
	"schemagen/internal/config"
	"schemagen/internal/fileio"
	"schemagen/internal/normalize/model"
	"schemagen/internal/normalize/service"
)

// TableResult describes what was generated for one source.
type TableResult struct {
	File      string              `json:"file"`
	Table     string              `json:"table"`
	Encoding  model.Encoding      `json:"encoding"`
	Delimiter string              `json:"delimiter"`
	Columns   int                 `json:"columns"`
	Rows      int                 `json:"rows"`
	Similar   []model.SimilarPair `json:"similar,omitempty"`
	Paths     artifact.Paths      `json:"-"`
}

type Summary struct {
	Tables []TableResult
}

// Generate converts every source under cfg.SourceDir and writes the batch
// scripts and manifest. The first failing file stops the run.
func Generate(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Summary, error) {
	var sum Summary
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return sum, err
	}

	srcs, err := fileio.ListSources(cfg.SourceDir)
	if err != nil {
		return sum, err
	}
	if err := checkTables(srcs); err != nil {
		return sum, err
	}
	if len(srcs) == 0 {
		logger.Warn().Str("dir", cfg.SourceDir).Msg("no sources found")
	}

	layout := cfg.Layout()
	batch := artifact.NewBatch(cfg.Dataset)

	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("stopped before %s: %w", src.FileName, err)
		}

		res, err := generateOne(cfg, layout, src, logger)
		if err != nil {
			return sum, err
		}
		batch.Add(src.FileName, res.Table, res.Paths.TableDefinition)
		sum.Tables = append(sum.Tables, res)
	}

	if err := batch.WriteScripts(layout); err != nil {
		return sum, err
	}
	if err := batch.WriteManifest(layout); err != nil {
		return sum, err
	}

	logger.Info().
		Int("tables", len(sum.Tables)).
		Str("scripts", layout.ScriptsDir).
		Dur("elapsed", time.Since(start)).
		Msg("generate done")
	return sum, nil
}

func generateOne(cfg config.Config, layout artifact.Layout, src model.Source, logger zerolog.Logger) (res TableResult, err error) {
	log := logger.With().Str("file", src.FileName).Logger()
	defer recoverSource(src, log, &err)
	log.Info().Msgf("Parsing %s", src.FileName)

	in, err := openSource(src)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := in.close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", src.FileName, cerr)
		}
	}()

	fields, names := service.Normalize(in.header)
	res = TableResult{
		File:      src.FileName,
		Table:     src.TableName(),
		Encoding:  in.dialect.Encoding,
		Delimiter: in.dialect.Delimiter.String(),
		Columns:   len(names),
		Paths:     layout.For(src),
	}

	res.Similar = service.SimilarColumns(names, cfg.LintThreshold)
	for _, p := range res.Similar {
		log.Warn().
			Str("a", p.A).
			Str("b", p.B).
			Float64("score", p.Score).
			Msg("similar column names")
	}

	res.Rows, err = artifact.WriteCSV(res.Paths.CSV, names, in.rows)
	if err != nil {
		return res, fmt.Errorf("%s: %w", src.FileName, err)
	}
	if err := artifact.WriteSchema(res.Paths.Schema, fields); err != nil {
		return res, err
	}

	def := service.NewTableDefinition(model.StandardDialect, fields, artifact.StorageURI(cfg.StorageURI, src))
	if err := artifact.WriteTableDefinition(res.Paths.TableDefinition, def); err != nil {
		return res, err
	}

	log.Debug().
		Str("encoding", string(res.Encoding)).
		Str("delimiter", res.Delimiter).
		Int("columns", res.Columns).
		Int("rows", res.Rows).
		Str("kind", src.Kind.String()).
		Msg("table written")
	return res, nil
}
