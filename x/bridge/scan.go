package bridge

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/wire"
	"golang.org/x/sync/errgroup"

	"github.com/compose-network/bmcp/x/script"
	bwire "github.com/compose-network/bmcp/x/wire"
)

// Finding is one OP_RETURN output of a transaction that carries a payload
// of a known layout. Err is set when such a payload failed to decode.
type Finding struct {
	TxID     string
	Index    int
	Envelope *Envelope
	Err      error
}

// ScanTx decodes every OP_RETURN output of tx. Outputs whose payload does not
// belong to a known layout are skipped.
func (d *Decoder) ScanTx(tx *wire.MsgTx) []Finding {
	var (
		findings []Finding
		scanned  int
		txid     = tx.TxHash().String()
	)
	for i, out := range tx.TxOut {
		if !script.IsOpReturn(out.PkScript) || len(out.PkScript) < 2 {
			continue
		}
		scanned++

		env, err := d.DecodeScript(out.PkScript)
		if err != nil && foreign(err) {
			continue
		}
		findings = append(findings, Finding{TxID: txid, Index: i, Envelope: env, Err: err})
	}
	d.metrics.recordScanned(scanned)
	return findings
}

// foreign reports whether err means the output is some other protocol's
// OP_RETURN rather than a broken payload of ours.
func foreign(err error) bool {
	return errors.Is(err, bwire.ErrUnsupportedProtocol) || errors.Is(err, bwire.ErrUnrecognizedScript)
}

// Result pairs a decoded envelope with its error, by input position.
type Result struct {
	Envelope *Envelope
	Err      error
}

// DecodeAll decodes scripts with at most workers concurrent decodes. Per
// script failures land in the results; only cancellation of ctx aborts.
func (d *Decoder) DecodeAll(ctx context.Context, scripts [][]byte, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(scripts))
	d.metrics.recordBatch(len(scripts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range scripts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d.metrics.inflight(1)
			defer d.metrics.inflight(-1)
			env, err := d.DecodeScript(s)
			results[i] = Result{Envelope: env, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
