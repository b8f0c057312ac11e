package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/bytecol/column"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/value"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleForm(t *testing.T, strategy format.StringStrategy) (column.SerializedForm, []value.Value) {
	t.Helper()

	values := []value.Value{
		value.String("hé"),
		value.Number(42.5),
		value.Bool(true),
		value.Undefined(),
		value.String("hé"),
		value.Date(time.Date(2023, time.June, 14, 0, 0, 0, 0, time.UTC)),
	}
	c, err := column.FromValues(values, column.WithStrategy(strategy))
	require.NoError(t, err)

	form, err := c.ToSerializedForm()
	require.NoError(t, err)

	return form, values
}

func requireForm(t *testing.T, form column.SerializedForm, want []value.Value) {
	t.Helper()

	c, err := column.FromSerializedForm(form)
	require.NoError(t, err)

	got, err := c.Values()
	require.NoError(t, err)
	ok, idx := value.EqualSlices(want, got)
	require.True(t, ok, "first difference at row %d", idx)
}

func TestPipe_MovesForm(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"direct", nil},
		{"framed none", []Option{WithFraming(format.CompressionNone)}},
		{"framed zstd", []Option{WithFraming(format.CompressionZstd)}},
		{"framed s2", []Option{WithFraming(format.CompressionS2)}},
		{"framed lz4", []Option{WithFraming(format.CompressionLZ4)}},
	}

	for _, tt := range tests {
		for _, strategy := range []format.StringStrategy{format.StrategyDirect, format.StrategyDictionary, format.StrategyBatch} {
			t.Run(tt.name+"/"+strategy.String(), func(t *testing.T) {
				p, err := NewPipe(tt.opts...)
				require.NoError(t, err)
				defer p.Close()

				form, want := sampleForm(t, strategy)
				ctx := context.Background()

				require.NoError(t, p.Send(ctx, &form))
				assert.Nil(t, form.Buffer)
				assert.Nil(t, form.StringBuffer)
				assert.Equal(t, 1, p.Len())

				require.ErrorIs(t, p.Send(ctx, &form), errs.ErrFormMoved)

				got, err := p.Receive(ctx)
				require.NoError(t, err)
				requireForm(t, got, want)
			})
		}
	}
}

func TestPipe_BatchSeparator(t *testing.T) {
	want := []value.Value{value.String("a\u001eb"), value.String("c"), value.Undefined(), value.String("d\u001e")}

	for _, opts := range [][]Option{nil, {WithFraming(format.CompressionNone)}, {WithFraming(format.CompressionZstd)}} {
		p, err := NewPipe(opts...)
		require.NoError(t, err)

		c, err := column.FromValues(want, column.WithStrategy(format.StrategyBatch), column.WithBatchSeparator('|'))
		require.NoError(t, err)
		form, err := c.ToSerializedForm()
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, p.Send(ctx, &form))
		got, err := p.Receive(ctx)
		require.NoError(t, err)
		p.Close()

		assert.Equal(t, '|', got.Separator)
		requireForm(t, got, want)
	}
}

func TestPipe_SendNil(t *testing.T) {
	p, err := NewPipe()
	require.NoError(t, err)

	require.ErrorIs(t, p.Send(context.Background(), nil), errs.ErrFormMoved)
}

func TestPipe_Concurrent(t *testing.T) {
	p, err := NewPipe(WithCapacity(2), WithFraming(format.CompressionS2))
	require.NoError(t, err)

	const forms = 20
	_, want := sampleForm(t, format.StrategyDictionary)
	pending := make([]column.SerializedForm, forms)
	for i := range pending {
		pending[i], _ = sampleForm(t, format.StrategyDictionary)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		defer p.Close()
		for i := range pending {
			if err := p.Send(ctx, &pending[i]); err != nil {
				return err
			}
		}

		return nil
	})

	received := 0
	g.Go(func() error {
		for {
			form, err := p.Receive(ctx)
			if err != nil {
				if errors.Is(err, errs.ErrPipeClosed) {
					return nil
				}

				return err
			}
			c, err := column.FromSerializedForm(form)
			if err != nil {
				return err
			}
			got, err := c.Values()
			if err != nil {
				return err
			}
			if ok, _ := value.EqualSlices(want, got); !ok {
				t.Errorf("form %d decoded differently", received)
			}
			received++
		}
	})

	require.NoError(t, g.Wait())
	assert.Equal(t, forms, received)
}

func TestPipe_CloseDrains(t *testing.T) {
	p, err := NewPipe(WithCapacity(3))
	require.NoError(t, err)

	ctx := context.Background()
	for range 2 {
		form, _ := sampleForm(t, format.StrategyBatch)
		require.NoError(t, p.Send(ctx, &form))
	}
	p.Close()
	p.Close()

	form, _ := sampleForm(t, format.StrategyBatch)
	require.ErrorIs(t, p.Send(ctx, &form), errs.ErrPipeClosed)
	assert.NotNil(t, form.Buffer, "a failed send must not clear the form")

	for range 2 {
		_, err := p.Receive(ctx)
		require.NoError(t, err)
	}

	_, err = p.Receive(ctx)
	require.ErrorIs(t, err, errs.ErrPipeClosed)
}

func TestPipe_ContextCancel(t *testing.T) {
	p, err := NewPipe(WithCapacity(0))
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	form, _ := sampleForm(t, format.StrategyDirect)
	require.ErrorIs(t, p.Send(ctx, &form), context.DeadlineExceeded)
	assert.NotNil(t, form.Buffer)

	_, err = p.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPipe_BlockedSenderUnblocksOnClose(t *testing.T) {
	p, err := NewPipe(WithCapacity(0))
	require.NoError(t, err)

	form, _ := sampleForm(t, format.StrategyDirect)
	done := make(chan error, 1)
	go func() {
		done <- p.Send(context.Background(), &form)
	}()

	time.Sleep(10 * time.Millisecond)
	p.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, errs.ErrPipeClosed)
	case <-time.After(time.Second):
		t.Fatal("sender still blocked after Close")
	}
}

func TestNewPipe_InvalidCapacity(t *testing.T) {
	_, err := NewPipe(WithCapacity(-1))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestPipe_InvalidFramingCompression(t *testing.T) {
	p, err := NewPipe(WithFraming(format.CompressionType(99)))
	require.NoError(t, err)
	defer p.Close()

	form, _ := sampleForm(t, format.StrategyDirect)
	err = p.Send(context.Background(), &form)
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	assert.NotNil(t, form.Buffer)
}
