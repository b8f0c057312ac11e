package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/bytecol/column"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/transfer"
	"github.com/arloliu/bytecol/value"
)

// maxReportedMismatches caps the mismatches collected per column.
const maxReportedMismatches = 10

// runColumns encodes every column in parallel, sends the serialized forms
// through a transfer pipe and decodes them on the receiving side.
func runColumns(ctx context.Context, cfg roundtripConfig, data [][]value.Value, rep *report, logger *zap.Logger) error {
	opts := []column.Option{column.WithStrategy(cfg.Strategy), column.WithLogger(logger)}

	columns := make([]*column.Column, len(data))
	err := timed(rep, "encode", func() error {
		var g errgroup.Group
		for i := range data {
			g.Go(func() error {
				c, err := column.FromValues(data[i], opts...)
				if err != nil {
					return fmt.Errorf("column %d: %w", i, err)
				}
				columns[i] = c

				return nil
			})
		}

		return g.Wait()
	})
	if err != nil {
		return err
	}

	forms := make([]column.SerializedForm, len(columns))
	err = timed(rep, "serialize", func() error {
		for i, c := range columns {
			form, err := c.ToSerializedForm()
			if err != nil {
				return fmt.Errorf("column %d: %w", i, err)
			}
			forms[i] = form
			rep.bytes += len(form.Buffer) + len(form.StringBuffer)
		}

		return nil
	})
	if err != nil {
		return err
	}
	for i, c := range columns {
		s := c.Stats()
		rep.stats = append(rep.stats, fmt.Sprintf(
			"column %d: fixed=%dB pool=%dB pool_writes=%d dictionary_hits=%d",
			i, s.FixedBytes, s.PoolBytes, s.PoolWrites, s.DictionaryHits))
	}

	var received []column.SerializedForm
	err = timed(rep, "transfer", func() error {
		received, err = transferForms(ctx, cfg, forms, logger)
		return err
	})
	if err != nil {
		return err
	}

	decoded := make([][]value.Value, len(received))
	err = timed(rep, "decode", func() error {
		var g errgroup.Group
		for i := range received {
			g.Go(func() error {
				c, err := column.FromSerializedForm(received[i], column.WithLogger(logger))
				if err != nil {
					return fmt.Errorf("column %d: %w", i, err)
				}
				values, err := c.Reify()
				if err != nil {
					return fmt.Errorf("column %d: %w", i, err)
				}
				decoded[i] = values

				return nil
			})
		}

		return g.Wait()
	})
	if err != nil {
		return err
	}

	return timed(rep, "verify", func() error {
		return verifyColumns(data, decoded)
	})
}

// transferForms moves forms to a receiving goroutine and returns what it got.
func transferForms(ctx context.Context, cfg roundtripConfig, forms []column.SerializedForm, logger *zap.Logger) ([]column.SerializedForm, error) {
	pipeOpts := []transfer.Option{transfer.WithCapacity(len(forms)), transfer.WithLogger(logger)}
	if cfg.Framed {
		pipeOpts = append(pipeOpts, transfer.WithFraming(cfg.Compression))
	}

	pipe, err := transfer.NewPipe(pipeOpts...)
	if err != nil {
		return nil, err
	}

	received := make([]column.SerializedForm, 0, len(forms))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer pipe.Close()
		for i := range forms {
			if err := pipe.Send(gctx, &forms[i]); err != nil {
				return fmt.Errorf("send column %d: %w", i, err)
			}
		}

		return nil
	})
	g.Go(func() error {
		for {
			form, err := pipe.Receive(gctx)
			if errors.Is(err, errs.ErrPipeClosed) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("receive: %w", err)
			}
			received = append(received, form)
		}
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return received, nil
}

// runRaw sends copies of the value slices, the baseline without encoding.
func runRaw(ctx context.Context, data [][]value.Value, rep *report) error {
	ch := make(chan []value.Value, len(data))
	decoded := make([][]value.Value, 0, len(data))

	err := timed(rep, "transfer", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer close(ch)
			for _, values := range data {
				cp := make([]value.Value, len(values))
				copy(cp, values)
				select {
				case ch <- cp:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			return nil
		})
		g.Go(func() error {
			for values := range ch {
				decoded = append(decoded, values)
			}

			return nil
		})

		return g.Wait()
	})
	if err != nil {
		return err
	}

	return timed(rep, "verify", func() error {
		return verifyColumns(data, decoded)
	})
}

// runJSON sends every column as a JSON document. Dates travel as RFC 3339
// strings, so verification compares against the JSON view of the input.
func runJSON(ctx context.Context, data [][]value.Value, rep *report) error {
	docs := make([][]byte, len(data))
	err := timed(rep, "encode", func() error {
		for i, values := range data {
			doc, err := json.Marshal(toJSONValues(values))
			if err != nil {
				return fmt.Errorf("column %d: %w", i, err)
			}
			docs[i] = doc
			rep.bytes += len(doc)
		}

		return nil
	})
	if err != nil {
		return err
	}

	ch := make(chan []byte, len(docs))
	for _, doc := range docs {
		ch <- doc
	}
	close(ch)

	decoded := make([][]any, 0, len(docs))
	err = timed(rep, "decode", func() error {
		for doc := range ch {
			if err := ctx.Err(); err != nil {
				return err
			}
			var out []any
			if err := json.Unmarshal(doc, &out); err != nil {
				return err
			}
			decoded = append(decoded, out)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return timed(rep, "verify", func() error {
		var result *multierror.Error
		for i, values := range data {
			want := toJSONValues(values)
			if len(decoded[i]) != len(want) {
				result = multierror.Append(result, fmt.Errorf("column %d: %d values, want %d", i, len(decoded[i]), len(want)))
				continue
			}
			mismatches := 0
			for j := range want {
				if decoded[i][j] != want[j] {
					result = multierror.Append(result, fmt.Errorf("column %d row %d: got %v, want %v", i, j, decoded[i][j], want[j]))
					if mismatches++; mismatches == maxReportedMismatches {
						break
					}
				}
			}
		}

		return result.ErrorOrNil()
	})
}

// toJSONValues returns the values as encoding/json would decode them.
func toJSONValues(values []value.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		switch v.Type() {
		case format.TypeDate:
			out[i] = v.Time().UTC().Format(time.RFC3339Nano)
		default:
			out[i] = v.Any()
		}
	}

	return out
}

// verifyColumns compares decoded columns with their input and aggregates
// every mismatch.
func verifyColumns(want, got [][]value.Value) error {
	if len(want) != len(got) {
		return fmt.Errorf("received %d columns, sent %d", len(got), len(want))
	}

	var result *multierror.Error
	for i := range want {
		if len(want[i]) != len(got[i]) {
			result = multierror.Append(result, fmt.Errorf("column %d: %d values, want %d", i, len(got[i]), len(want[i])))
			continue
		}

		mismatches := 0
		for j := range want[i] {
			if !want[i][j].Equal(got[i][j]) {
				result = multierror.Append(result, fmt.Errorf("column %d row %d: got %s, want %s", i, j, got[i][j], want[i][j]))
				if mismatches++; mismatches == maxReportedMismatches {
					break
				}
			}
		}
	}

	return result.ErrorOrNil()
}

func timed(rep *report, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	rep.phase(name, time.Since(start))

	return err
}
