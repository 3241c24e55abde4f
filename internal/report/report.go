// Package report renders a batch of fit results as a plain-text summary
// table ranked by selection score.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/zredjet/bugcurvefit/internal/fit"
)

// Write renders the results to w, ranked results first (best on top),
// followed by invalid and failed fits.
func Write(w io.Writer, results []*fit.Result) error {
	ordered := append([]*fit.Result{}, results...)
	sort.SliceStable(ordered, func(a, b int) bool {
		ra, rb := ordered[a], ordered[b]
		if ra.Ranked() != rb.Ranked() {
			return ra.Ranked()
		}
		if !ra.Ranked() {
			return false
		}
		return ra.Score < rb.Score
	})

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tSTATUS\tCRITERION\tSCORE\tR2\tASYMPTOTE\tPARAMS")
	for _, r := range ordered {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Model,
			status(r),
			r.Criterion,
			num(r.Score),
			num(r.RSquared),
			num(r.Limit),
			params(r),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range ordered {
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "warning: %s: %s\n", r.Model, warn)
		}
		if !r.Success && r.Message != "" {
			fmt.Fprintf(w, "failed: %s: %s\n", r.Model, r.Message)
		}
	}
	return nil
}

func status(r *fit.Result) string {
	switch {
	case !r.Success:
		return "failed"
	case r.Criterion == fit.CriterionInvalid:
		return "unranked"
	default:
		return "ok"
	}
}

func num(v float64) string {
	switch {
	case math.IsNaN(v):
		return "-"
	case math.IsInf(v, 1):
		return "unbounded"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%.4g", v)
	}
}

func params(r *fit.Result) string {
	if len(r.Params) == 0 {
		return "-"
	}
	parts := make([]string, len(r.Params))
	for i, p := range r.Params {
		name := fmt.Sprintf("p%d", i)
		if i < len(r.ParamNames) {
			name = r.ParamNames[i]
		}
		parts[i] = fmt.Sprintf("%s=%.4g", name, p)
	}
	return strings.Join(parts, " ")
}
