package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/daybook/broker"
)

// Result is a lightweight summary of a completed run.
type Result struct {
	Start time.Time
	End   time.Time

	Sessions    int
	Trades      int
	Buys        int
	Sells       int
	Gains       int
	LongTerm    int
	ShortTerm   int
	Dividends   float64
	Commissions float64

	RealizedGain float64
	StartCash    float64
	EndCash      float64
}

func summarize(b *broker.Broker, sessions []time.Time, startCash float64) *Result {
	res := &Result{
		Start:     sessions[0],
		End:       sessions[len(sessions)-1],
		Sessions:  len(sessions),
		StartCash: startCash,
		EndCash:   b.Cash(),
	}

	for _, t := range b.Trades() {
		res.Trades++
		if t.IsBuy() {
			res.Buys++
		} else {
			res.Sells++
		}
	}
	for _, c := range b.Commissions() {
		res.Commissions += c.Amount
	}
	for _, g := range b.CapitalGains() {
		res.Gains++
		res.RealizedGain += g.Gain()
		if g.LongTerm {
			res.LongTerm++
		} else {
			res.ShortTerm++
		}
	}
	for _, d := range b.Dividends() {
		res.Dividends += d.Amount
	}
	return res
}

// Print writes a human-readable run summary.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Period:        %s .. %s (%d sessions)\n",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), r.Sessions)
	fmt.Fprintf(w, "Trades:        %d (%d buys, %d sells)\n", r.Trades, r.Buys, r.Sells)
	fmt.Fprintf(w, "Capital Gains: %d (%d long-term, %d short-term)\n", r.Gains, r.LongTerm, r.ShortTerm)
	fmt.Fprintf(w, "Realized P/L:  %.4f\n", r.RealizedGain)
	fmt.Fprintf(w, "Commissions:   %.4f\n", r.Commissions)
	if r.Dividends != 0 {
		fmt.Fprintf(w, "Dividends:     %.4f\n", r.Dividends)
	}
	fmt.Fprintf(w, "Start Cash:    %.2f\n", r.StartCash)
	fmt.Fprintf(w, "End Cash:      %.2f\n", r.EndCash)
	fmt.Fprintln(w)
}
