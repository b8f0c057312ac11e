package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/datagen"
	"github.com/arloliu/bytecol/value"
)

const envPrefix = "BYTECOL"

// Modes of the roundtrip command.
const (
	modeColumn = "column"
	modeRaw    = "raw"
	modeJSON   = "json"
)

// roundtripConfig is the resolved configuration of one run.
type roundtripConfig struct {
	Count       int
	Seed        uint32
	Columns     int
	Mode        string
	Strategy    format.StringStrategy
	Compression format.CompressionType
	Framed      bool
	Mix         datagen.Mix
}

func newRoundtripCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Encode, transfer, decode and verify generated columns",
		Long: `Generate deterministic columns, move them to a receiving goroutine and
verify the values that arrive.

Modes:
  column  encode into column buffers and transfer the serialized forms
  raw     transfer copies of the decoded values
  json    transfer JSON documents

Every flag can also be set through the environment, e.g. BYTECOL_COUNT=1000.

Example:
  bytecol roundtrip --count 300000 --strategy batch --compression zstd`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRoundtripConfig(v)
			if err != nil {
				return err
			}

			logger, err := newLogger(v.GetString("log-level"), v.GetString("log-format"))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
			defer cancel()

			rep, err := runRoundtrip(ctx, cfg, logger)
			if rep != nil {
				rep.print(cmd.OutOrStdout())
			}

			return err
		},
	}

	flags := cmd.Flags()
	flags.Int("count", 100000, "Number of values per column")
	flags.Uint32("seed", 1, "Seed of the value generator")
	flags.Int("columns", 1, "Number of columns encoded and decoded in parallel")
	flags.String("mode", modeColumn, "Transfer mode: column, raw or json")
	flags.String("strategy", "direct", "String strategy: direct, dictionary or batch")
	flags.String("compression", "", "Frame compression: none, zstd, s2 or lz4 (empty sends forms unframed)")
	flags.String("mix", "default", "Value mix: default (all kinds) or strings")
	flags.Duration("timeout", 5*time.Minute, "Run timeout")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log encoding (console, json)")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func loadRoundtripConfig(v *viper.Viper) (roundtripConfig, error) {
	cfg := roundtripConfig{
		Count:   v.GetInt("count"),
		Seed:    v.GetUint32("seed"),
		Columns: v.GetInt("columns"),
		Mode:    strings.ToLower(v.GetString("mode")),
	}

	if cfg.Count < 0 {
		return cfg, fmt.Errorf("%w: count %d", errs.ErrInvalidOption, cfg.Count)
	}
	if cfg.Columns < 1 {
		return cfg, fmt.Errorf("%w: columns %d", errs.ErrInvalidOption, cfg.Columns)
	}

	switch cfg.Mode {
	case modeColumn, modeRaw, modeJSON:
	default:
		return cfg, fmt.Errorf("%w: mode %q", errs.ErrInvalidOption, cfg.Mode)
	}

	strategy, ok := format.ParseStringStrategy(v.GetString("strategy"))
	if !ok {
		return cfg, fmt.Errorf("%w: strategy %q", errs.ErrInvalidOption, v.GetString("strategy"))
	}
	cfg.Strategy = strategy

	if name := v.GetString("compression"); name != "" {
		compression, ok := format.ParseCompressionType(name)
		if !ok {
			return cfg, fmt.Errorf("%w: compression %q", errs.ErrInvalidOption, name)
		}
		cfg.Compression = compression
		cfg.Framed = true
	} else {
		cfg.Compression = format.CompressionNone
	}

	switch strings.ToLower(v.GetString("mix")) {
	case "default", "":
		cfg.Mix = datagen.DefaultMix
	case "strings":
		cfg.Mix = datagen.StringsOnly
	default:
		return cfg, fmt.Errorf("%w: mix %q", errs.ErrInvalidOption, v.GetString("mix"))
	}

	return cfg, nil
}

// generate returns the input of every column. Column i uses seed+i.
func generate(cfg roundtripConfig) [][]value.Value {
	data := make([][]value.Value, cfg.Columns)
	for i := range data {
		data[i] = datagen.New(cfg.Seed+uint32(i), cfg.Mix).Values(cfg.Count) //nolint:gosec
	}

	return data
}

func runRoundtrip(ctx context.Context, cfg roundtripConfig, logger *zap.Logger) (*report, error) {
	rep := newReport(cfg)

	start := time.Now()
	data := generate(cfg)
	rep.phase("generate", time.Since(start))

	logger.Info("roundtrip started",
		zap.String("mode", cfg.Mode),
		zap.Int("count", cfg.Count),
		zap.Int("columns", cfg.Columns),
		zap.Stringer("strategy", cfg.Strategy),
		zap.Stringer("compression", cfg.Compression),
	)

	var err error
	switch cfg.Mode {
	case modeRaw:
		err = runRaw(ctx, data, rep)
	case modeJSON:
		err = runJSON(ctx, data, rep)
	default:
		err = runColumns(ctx, cfg, data, rep, logger)
	}
	if err != nil {
		logger.Error("roundtrip failed", zap.Error(err))
		return rep, err
	}

	logger.Info("roundtrip finished", zap.Duration("total", rep.total()))

	return rep, nil
}

// report collects phase timings and sizes of one run.
type report struct {
	cfg    roundtripConfig
	phases []phaseTiming
	bytes  int
	stats  []string
}

type phaseTiming struct {
	name string
	d    time.Duration
}

func newReport(cfg roundtripConfig) *report {
	return &report{cfg: cfg}
}

func (r *report) phase(name string, d time.Duration) {
	r.phases = append(r.phases, phaseTiming{name: name, d: d})
}

func (r *report) total() time.Duration {
	var sum time.Duration
	for _, p := range r.phases {
		sum += p.d
	}

	return sum
}

func (r *report) print(w io.Writer) {
	fmt.Fprintf(w, "mode=%s count=%d columns=%d strategy=%s compression=%s\n",
		r.cfg.Mode, r.cfg.Count, r.cfg.Columns, r.cfg.Strategy, r.cfg.Compression)
	for _, p := range r.phases {
		fmt.Fprintf(w, "  %-10s %12s\n", p.name, p.d)
	}
	fmt.Fprintf(w, "  %-10s %12s\n", "total", r.total())
	if r.bytes > 0 {
		fmt.Fprintf(w, "  transferred %d bytes\n", r.bytes)
	}
	for _, s := range r.stats {
		fmt.Fprintf(w, "  %s\n", s)
	}
}
