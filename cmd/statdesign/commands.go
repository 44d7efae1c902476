package main

import (
	"context"
	"flag"
	"strconv"
	"strings"

	"statdesign/adapters/excel"
	"statdesign/api"
	"statdesign/app/sweep"
	"statdesign/domain/design"
	"statdesign/internal/config"
	"statdesign/internal/errors"
)

type commandFunc func(args []string) error

var commands = map[string]commandFunc{
	"n-two-prop":        cmdNTwoProp,
	"n-one-sample-prop": cmdNOneSampleProp,
	"n-mean":            cmdNMean,
	"n-one-sample-mean": cmdNOneSampleMean,
	"n-paired":          cmdNPaired,
	"n-anova":           cmdNAnova,
	"events-logrank":    cmdEventsLogrank,
	"events-cox":        cmdEventsCox,
	"events-to-n":       cmdEventsToN,
	"power-logrank":     cmdPowerLogrank,
	"alpha-adjust":      cmdAlphaAdjust,
	"bh-thresholds":     cmdBHThresholds,
	"sweep":             cmdSweep,
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.InvalidInputf("invalid number %q", part)
		}
		values = append(values, v)
	}
	return values, nil
}

func marginFlags(fs *flag.FlagSet) (*float64, *string) {
	value := fs.Float64("ni-margin", 0, "noninferiority/equivalence margin")
	kind := fs.String("ni-type", "", "margin type: noninferiority or equivalence")
	return value, kind
}

func buildMargin(value float64, kind string) design.Margin {
	return design.Margin{Value: value, Type: design.NIType(kind)}
}

func cmdNTwoProp(args []string) error {
	fs := flag.NewFlagSet("n-two-prop", flag.ExitOnError)
	p1 := fs.Float64("p1", 0, "proportion in arm 1")
	p2 := fs.Float64("p2", 0, "proportion in arm 2")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	ratio := fs.Float64("ratio", 1.0, "allocation ratio n2/n1")
	test := fs.String("test", "z", "test statistic: z or t")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	exact := fs.Bool("exact", false, "use exact Fisher enumeration")
	marginValue, marginType := marginFlags(fs)
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n1, n2, err := api.NTwoProp(api.TwoPropParams{
		P1: *p1, P2: *p2, Alpha: *alpha, Power: *power, Ratio: *ratio,
		Test: design.TestKind(*test), Tail: design.Tail(*tail),
		Margin: buildMargin(*marginValue, *marginType), Exact: *exact,
	})
	if err != nil {
		return err
	}
	result := map[string]int{"n1": n1, "n2": n2, "n_total": n1 + n2}
	return printResult(*asTable, result,
		[]any{"n1", "n2", "n_total"}, [][]any{{n1, n2, n1 + n2}})
}

func cmdNOneSampleProp(args []string) error {
	fs := flag.NewFlagSet("n-one-sample-prop", flag.ExitOnError)
	p := fs.Float64("p", 0, "true proportion")
	p0 := fs.Float64("p0", 0, "null proportion")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	exact := fs.Bool("exact", false, "use exact binomial enumeration")
	marginValue, marginType := marginFlags(fs)
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, err := api.NOneSampleProp(api.OneSamplePropParams{
		P: *p, P0: *p0, Alpha: *alpha, Power: *power,
		Tail: design.Tail(*tail), Exact: *exact,
		Margin: buildMargin(*marginValue, *marginType),
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]int{"n": n},
		[]any{"n"}, [][]any{{n}})
}

func cmdNMean(args []string) error {
	fs := flag.NewFlagSet("n-mean", flag.ExitOnError)
	mu1 := fs.Float64("mu1", 0, "mean in arm 1")
	mu2 := fs.Float64("mu2", 0, "mean in arm 2")
	sd := fs.Float64("sd", 0, "common standard deviation")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	ratio := fs.Float64("ratio", 1.0, "allocation ratio n2/n1")
	test := fs.String("test", "t", "test statistic: z or t")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	marginValue, marginType := marginFlags(fs)
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n1, n2, err := api.NMean(api.MeanParams{
		Mu1: *mu1, Mu2: *mu2, SD: *sd, Alpha: *alpha, Power: *power,
		Ratio: *ratio, Test: design.TestKind(*test), Tail: design.Tail(*tail),
		Margin: buildMargin(*marginValue, *marginType),
	})
	if err != nil {
		return err
	}
	result := map[string]int{"n1": n1, "n2": n2, "n_total": n1 + n2}
	return printResult(*asTable, result,
		[]any{"n1", "n2", "n_total"}, [][]any{{n1, n2, n1 + n2}})
}

func cmdNOneSampleMean(args []string) error {
	fs := flag.NewFlagSet("n-one-sample-mean", flag.ExitOnError)
	delta := fs.Float64("delta", 0, "mean difference against the null")
	sd := fs.Float64("sd", 0, "standard deviation")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	test := fs.String("test", "t", "test statistic: z or t")
	marginValue, marginType := marginFlags(fs)
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, err := api.NOneSampleMean(api.OneSampleMeanParams{
		Delta: *delta, SD: *sd, Alpha: *alpha, Power: *power,
		Tail: design.Tail(*tail), Test: design.TestKind(*test),
		Margin: buildMargin(*marginValue, *marginType),
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]int{"n": n},
		[]any{"n"}, [][]any{{n}})
}

func cmdNPaired(args []string) error {
	fs := flag.NewFlagSet("n-paired", flag.ExitOnError)
	delta := fs.Float64("delta", 0, "mean within-pair difference")
	sdDiff := fs.Float64("sd-diff", 0, "standard deviation of differences")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	marginValue, marginType := marginFlags(fs)
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, err := api.NPaired(api.PairedParams{
		Delta: *delta, SDDiff: *sdDiff, Alpha: *alpha, Power: *power,
		Tail: design.Tail(*tail), Margin: buildMargin(*marginValue, *marginType),
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]int{"n_pairs": n},
		[]any{"n_pairs"}, [][]any{{n}})
}

func cmdNAnova(args []string) error {
	fs := flag.NewFlagSet("n-anova", flag.ExitOnError)
	kGroups := fs.Int("k", 0, "number of groups")
	effectF := fs.Float64("effect-f", 0, "Cohen's f effect size")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	allocation := fs.String("allocation", "", "comma-separated group weights (default equal)")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	weights, err := parseFloats(*allocation)
	if err != nil {
		return err
	}
	n, err := api.NAnova(api.AnovaParams{
		KGroups: *kGroups, EffectF: *effectF, Alpha: *alpha, Power: *power,
		Allocation: weights,
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]int{"n_total": n},
		[]any{"n_total"}, [][]any{{n}})
}

func cmdEventsLogrank(args []string) error {
	fs := flag.NewFlagSet("events-logrank", flag.ExitOnError)
	hr := fs.Float64("hr", 0, "hazard ratio (experimental/control)")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	allocation := fs.Float64("allocation", 0.5, "experimental-arm fraction")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := api.RequiredEventsLogrank(api.LogrankParams{
		HR: *hr, Alpha: *alpha, Power: *power, Allocation: *allocation,
		Tail: design.Tail(*tail),
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]float64{"events": events},
		[]any{"events"}, [][]any{{events}})
}

func cmdEventsCox(args []string) error {
	fs := flag.NewFlagSet("events-cox", flag.ExitOnError)
	logHR := fs.Float64("log-hr", 0, "log hazard ratio per covariate unit")
	varX := fs.Float64("var-x", 0, "covariate variance")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := api.RequiredEventsCox(api.CoxParams{
		LogHR: *logHR, VarX: *varX, Alpha: *alpha, Power: *power,
		Tail: design.Tail(*tail),
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]float64{"events": events},
		[]any{"events"}, [][]any{{events}})
}

func accrualFlags(fs *flag.FlagSet) (accrualYears, followupYears, baseHazard, hr, dropout *float64, entry *string) {
	accrualYears = fs.Float64("accrual-years", 0, "accrual window in years")
	followupYears = fs.Float64("followup-years", 0, "post-accrual follow-up in years")
	baseHazard = fs.Float64("base-hazard-ctrl", 0, "control-arm event hazard")
	hr = fs.Float64("hr", 0, "hazard ratio (experimental/control)")
	dropout = fs.Float64("dropout-hazard", 0, "dropout hazard")
	entry = fs.String("entry", "uniform", "entry distribution: uniform or instant")
	return
}

func cmdEventsToN(args []string) error {
	fs := flag.NewFlagSet("events-to-n", flag.ExitOnError)
	events := fs.Float64("events", 0, "required event count")
	accrualYears, followupYears, baseHazard, hr, dropout, entry := accrualFlags(fs)
	allocation := fs.Float64("allocation", 0.5, "experimental-arm fraction")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	nTotal, nExp, nCtrl, err := api.EventsToNExponential(api.EventsToNParams{
		EventsRequired: *events,
		ExponentialAccrualParams: api.ExponentialAccrualParams{
			AccrualYears: *accrualYears, FollowupYears: *followupYears,
			BaseHazardCtrl: *baseHazard, HR: *hr, DropoutHazard: *dropout,
			Entry: design.EntryDistribution(*entry),
		},
		Allocation: *allocation,
	})
	if err != nil {
		return err
	}
	result := map[string]int{"n_total": nTotal, "n_exp": nExp, "n_ctrl": nCtrl}
	return printResult(*asTable, result,
		[]any{"n_total", "n_exp", "n_ctrl"}, [][]any{{nTotal, nExp, nCtrl}})
}

func cmdPowerLogrank(args []string) error {
	fs := flag.NewFlagSet("power-logrank", flag.ExitOnError)
	nExp := fs.Int("n-exp", 0, "experimental-arm size")
	nCtrl := fs.Int("n-ctrl", 0, "control-arm size")
	accrualYears, followupYears, baseHazard, hr, dropout, entry := accrualFlags(fs)
	alpha := fs.Float64("alpha", 0.05, "significance level")
	tail := fs.String("tail", "two-sided", "two-sided, greater, or less")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	power, err := api.PowerLogrankFromN(api.PowerLogrankParams{
		NExp: *nExp, NCtrl: *nCtrl,
		ExponentialAccrualParams: api.ExponentialAccrualParams{
			AccrualYears: *accrualYears, FollowupYears: *followupYears,
			BaseHazardCtrl: *baseHazard, HR: *hr, DropoutHazard: *dropout,
			Entry: design.EntryDistribution(*entry),
		},
		Alpha: *alpha, Tail: design.Tail(*tail),
	})
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]float64{"power": power},
		[]any{"power"}, [][]any{{power}})
}

func cmdAlphaAdjust(args []string) error {
	fs := flag.NewFlagSet("alpha-adjust", flag.ExitOnError)
	m := fs.Int("m", 0, "number of comparisons")
	alpha := fs.Float64("alpha", 0.05, "family-wise significance level")
	method := fs.String("method", "bonferroni", "bonferroni or bh")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	adjusted, err := api.AlphaAdjust(*m, *alpha, api.AdjustMethod(*method))
	if err != nil {
		return err
	}
	return printResult(*asTable, map[string]float64{"alpha_adjusted": adjusted},
		[]any{"alpha_adjusted"}, [][]any{{adjusted}})
}

func cmdBHThresholds(args []string) error {
	fs := flag.NewFlagSet("bh-thresholds", flag.ExitOnError)
	m := fs.Int("m", 0, "number of comparisons")
	alpha := fs.Float64("alpha", 0.05, "family-wise significance level")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	thresholds, err := api.BHThresholds(*m, *alpha)
	if err != nil {
		return err
	}
	rows := make([][]any, len(thresholds))
	for i, t := range thresholds {
		rows[i] = []any{i + 1, t}
	}
	return printResult(*asTable, map[string][]float64{"thresholds": thresholds},
		[]any{"i", "threshold"}, rows)
}

func cmdSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	designKind := fs.String("design", "two_prop", "sweep design: two_prop or mean")
	p1 := fs.Float64("p1", 0, "proportion in arm 1 (two_prop)")
	p2 := fs.Float64("p2", 0, "proportion in arm 2 (two_prop)")
	mu1 := fs.Float64("mu1", 0, "mean in arm 1 (mean)")
	mu2 := fs.Float64("mu2", 0, "mean in arm 2 (mean)")
	sd := fs.Float64("sd", 0, "common standard deviation (mean)")
	alpha := fs.Float64("alpha", 0.05, "significance level")
	power := fs.Float64("power", 0.80, "target power (effect sweeps)")
	ratio := fs.Float64("ratio", 1.0, "allocation ratio n2/n1")
	powers := fs.String("powers", "", "comma-separated target powers")
	effects := fs.String("effects", "", "comma-separated effect values")
	out := fs.String("out", "", "write the sweep table to this .xlsx file")
	asTable := fs.Bool("table", false, "render as a table instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	powerGrid, err := parseFloats(*powers)
	if err != nil {
		return err
	}
	effectGrid, err := parseFloats(*effects)
	if err != nil {
		return err
	}

	req := sweep.Request{
		Design:  sweep.DesignKind(*designKind),
		Powers:  powerGrid,
		Effects: effectGrid,
	}
	switch req.Design {
	case sweep.DesignTwoProp:
		req.TwoProp = &api.TwoPropParams{
			P1: *p1, P2: *p2, Alpha: *alpha, Power: *power, Ratio: *ratio,
			ExactCeiling: cfg.Solver.ExactCeiling,
		}
	case sweep.DesignMean:
		req.Mean = &api.MeanParams{
			Mu1: *mu1, Mu2: *mu2, SD: *sd, Alpha: *alpha, Power: *power, Ratio: *ratio,
		}
	}

	service := sweep.NewService(cfg.Sweep.Concurrency)
	result, err := service.Run(context.Background(), req)
	if err != nil {
		return err
	}
	if *out != "" {
		if err := excel.WriteSweep(*out, result); err != nil {
			return err
		}
	}

	rows := make([][]any, len(result.Points))
	for i, point := range result.Points {
		rows[i] = []any{point.Power, point.Effect, point.N1, point.N2, point.Total}
	}
	return printResult(*asTable, result,
		[]any{"power", "effect", "n1", "n2", "n_total"}, rows)
}
