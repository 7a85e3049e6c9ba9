package metrics

import (
	"math"

	"github.com/algotradehub/algotrade/internal/types"
)

// Metric keys used in reports and stats files.
const (
	KeyEquityFinal         = "equity_final"
	KeyEquityPeak          = "equity_peak"
	KeyTotalReturnPct      = "total_return_pct"
	KeyAnnualizedReturnPct = "annualized_return_pct"
	KeyVolatilityPct       = "annualized_volatility_pct"
	KeySharpeRatio         = "sharpe_ratio"
	KeySortinoRatio        = "sortino_ratio"
	KeyCalmarRatio         = "calmar_ratio"
	KeyMaxDrawdownPct      = "max_drawdown_pct"
	KeyAvgDrawdownPct      = "avg_drawdown_pct"
	KeyMaxDrawdownBars     = "max_drawdown_duration_bars"
	KeyAvgDrawdownBars     = "avg_drawdown_duration_bars"
	KeyBuyHoldReturnPct    = "buy_hold_return_pct"
	KeyAlphaPct            = "alpha_pct"
	KeyBeta                = "beta"
	KeyNumTrades           = "num_trades"
	KeyWinRatePct          = "win_rate_pct"
	KeyBestTradePct        = "best_trade_pct"
	KeyWorstTradePct       = "worst_trade_pct"
	KeyAvgTradePct         = "avg_trade_pct"
	KeyMaxTradeDurationHrs = "max_trade_duration_hours"
	KeyAvgTradeDurationHrs = "avg_trade_duration_hours"
	KeyProfitFactor        = "profit_factor"
	KeyExpectancyPct       = "expectancy_pct"
	KeyNetProfit           = "net_profit"
	KeyExposureTimePct     = "exposure_time_pct"
	KeyVaR95Pct            = "var_95_pct"
	KeyCVaR95Pct           = "cvar_95_pct"
)

// profitFactorCap replaces an infinite profit factor (no losing trades).
const profitFactorCap = 999.99

// Calculator computes performance metrics over an equity curve and a list of
// closed trades. All ratios are annualized assuming daily bars unless a
// different periods-per-year is configured.
type Calculator struct {
	riskFreeRate   float64
	periodsPerYear float64
}

// NewCalculator returns a calculator with a 2% risk-free rate and 252
// periods per year.
func NewCalculator() *Calculator {
	return &Calculator{
		riskFreeRate:   0.02,
		periodsPerYear: 252,
	}
}

// NewCalculatorWithPeriods returns a calculator annualizing with the given
// number of periods per year (e.g. 252*24 for hourly bars).
func NewCalculatorWithPeriods(periodsPerYear float64) *Calculator {
	c := NewCalculator()
	c.periodsPerYear = periodsPerYear

	return c
}

// Calculate computes every metric available from the inputs. The benchmark
// may be nil; trades may be empty. Fewer than two equity points yield an
// empty map.
func (c *Calculator) Calculate(equity, benchmark []float64, trades []types.Position) map[string]float64 {
	out := make(map[string]float64)

	if len(equity) >= 2 {
		c.basicMetrics(out, equity)
		c.returnMetrics(out, equity)
		c.riskMetrics(out, equity)
		c.drawdownMetrics(out, equity)
	}

	if len(benchmark) == len(equity) && len(benchmark) >= 2 {
		c.benchmarkMetrics(out, equity, benchmark)
	}

	c.tradeMetrics(out, trades)

	return out
}

// TradeResult summarizes trade counts and drawdown for the stats file.
func (c *Calculator) TradeResult(equity []float64, trades []types.Position) types.TradeResult {
	result := types.TradeResult{}

	for _, trade := range trades {
		if trade.Status != types.PositionStatusClosed {
			continue
		}

		result.NumberOfTrades++

		switch {
		case trade.PnL > 0:
			result.NumberOfWinningTrades++
		case trade.PnL < 0:
			result.NumberOfLosingTrades++
		}
	}

	if result.NumberOfTrades > 0 {
		result.WinRate = float64(result.NumberOfWinningTrades) / float64(result.NumberOfTrades) * 100
	}

	if len(equity) >= 2 {
		result.MaxDrawdown = -minSlice(drawdownSeries(equity))
	}

	return result
}

func (c *Calculator) basicMetrics(out map[string]float64, equity []float64) {
	initial := equity[0]
	final := equity[len(equity)-1]

	peak := initial
	for _, v := range equity {
		if v > peak {
			peak = v
		}
	}

	out[KeyEquityFinal] = final
	out[KeyEquityPeak] = peak

	if initial != 0 {
		out[KeyTotalReturnPct] = (final - initial) / initial * 100
	}
}

func (c *Calculator) returnMetrics(out map[string]float64, equity []float64) {
	returns := pctChanges(equity)
	if len(returns) == 0 {
		return
	}

	out[KeyAnnualizedReturnPct] = c.annualizedReturn(equity)
	out[KeyVolatilityPct] = sampleStd(returns) * math.Sqrt(c.periodsPerYear) * 100
}

func (c *Calculator) riskMetrics(out map[string]float64, equity []float64) {
	returns := pctChanges(equity)
	if len(returns) == 0 {
		return
	}

	annualized := c.annualizedReturn(equity)
	volatility := sampleStd(returns) * math.Sqrt(c.periodsPerYear) * 100
	excess := annualized - c.riskFreeRate*100

	if volatility > 0 {
		out[KeySharpeRatio] = excess / volatility
	} else {
		out[KeySharpeRatio] = 0
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	out[KeySortinoRatio] = 0
	if len(downside) > 0 {
		downsideDev := sampleStd(downside) * math.Sqrt(c.periodsPerYear) * 100
		if downsideDev > 0 {
			out[KeySortinoRatio] = excess / downsideDev
		}
	}

	maxDrawdown := minSlice(drawdownSeries(equity))
	if maxDrawdown != 0 {
		out[KeyCalmarRatio] = annualized / math.Abs(maxDrawdown)
	} else {
		out[KeyCalmarRatio] = 0
	}

	out[KeyVaR95Pct] = VaR(returns, 0.05)
	out[KeyCVaR95Pct] = CVaR(returns, 0.05)
}

func (c *Calculator) drawdownMetrics(out map[string]float64, equity []float64) {
	drawdown := drawdownSeries(equity)

	out[KeyMaxDrawdownPct] = minSlice(drawdown)

	var (
		negSum   float64
		negCount int
	)

	for _, d := range drawdown {
		if d < 0 {
			negSum += d
			negCount++
		}
	}

	out[KeyAvgDrawdownPct] = 0
	if negCount > 0 {
		out[KeyAvgDrawdownPct] = negSum / float64(negCount)
	}

	periods := drawdownPeriods(drawdown)

	out[KeyMaxDrawdownBars] = 0
	out[KeyAvgDrawdownBars] = 0

	if len(periods) > 0 {
		var maxP, sum int
		for _, p := range periods {
			sum += p
			if p > maxP {
				maxP = p
			}
		}

		out[KeyMaxDrawdownBars] = float64(maxP)
		out[KeyAvgDrawdownBars] = float64(sum) / float64(len(periods))
	}
}

func (c *Calculator) benchmarkMetrics(out map[string]float64, equity, benchmark []float64) {
	if benchmark[0] == 0 {
		return
	}

	out[KeyBuyHoldReturnPct] = (benchmark[len(benchmark)-1]/benchmark[0] - 1) * 100

	portfolioReturns := pctChanges(equity)
	benchmarkReturns := pctChanges(benchmark)

	if len(portfolioReturns) != len(benchmarkReturns) || len(portfolioReturns) == 0 {
		return
	}

	benchVariance := populationVariance(benchmarkReturns)

	beta := 0.0
	if benchVariance != 0 {
		beta = covariance(portfolioReturns, benchmarkReturns) / benchVariance
	}

	out[KeyBeta] = beta

	portfolioAnnualized := c.annualizedReturn(equity)
	benchmarkAnnualized := c.annualizedReturn(benchmark)
	riskFree := c.riskFreeRate * 100

	out[KeyAlphaPct] = portfolioAnnualized - (riskFree + beta*(benchmarkAnnualized-riskFree))
}

func (c *Calculator) tradeMetrics(out map[string]float64, trades []types.Position) {
	out[KeyNumTrades] = 0
	out[KeyWinRatePct] = 0
	out[KeyBestTradePct] = 0
	out[KeyWorstTradePct] = 0
	out[KeyAvgTradePct] = 0
	out[KeyMaxTradeDurationHrs] = 0
	out[KeyAvgTradeDurationHrs] = 0
	out[KeyProfitFactor] = 0
	out[KeyExpectancyPct] = 0
	out[KeyNetProfit] = 0

	var closed []types.Position
	for _, trade := range trades {
		if trade.Status == types.PositionStatusClosed {
			closed = append(closed, trade)
		}
	}

	if len(closed) == 0 {
		return
	}

	var (
		grossProfit, grossLoss float64
		netProfit              float64
		wins                   int
		pctSum                 float64
		best                   = math.Inf(-1)
		worst                  = math.Inf(1)
		durations              []float64
	)

	for _, trade := range closed {
		netProfit += trade.PnL

		switch {
		case trade.PnL > 0:
			wins++
			grossProfit += trade.PnL
		case trade.PnL < 0:
			grossLoss += math.Abs(trade.PnL)
		}

		pctSum += trade.PnLPercentage
		if trade.PnLPercentage > best {
			best = trade.PnLPercentage
		}
		if trade.PnLPercentage < worst {
			worst = trade.PnLPercentage
		}

		if trade.ExitTime.IsSome() {
			durations = append(durations, trade.ExitTime.Unwrap().Sub(trade.EntryTime).Hours())
		}
	}

	out[KeyNumTrades] = float64(len(closed))
	out[KeyWinRatePct] = float64(wins) / float64(len(closed)) * 100
	out[KeyBestTradePct] = best
	out[KeyWorstTradePct] = worst
	out[KeyAvgTradePct] = pctSum / float64(len(closed))
	out[KeyExpectancyPct] = out[KeyAvgTradePct]
	out[KeyNetProfit] = netProfit

	if len(durations) > 0 {
		var maxD, sum float64
		for _, d := range durations {
			sum += d
			if d > maxD {
				maxD = d
			}
		}

		out[KeyMaxTradeDurationHrs] = maxD
		out[KeyAvgTradeDurationHrs] = sum / float64(len(durations))
	}

	switch {
	case grossLoss > 0:
		out[KeyProfitFactor] = grossProfit / grossLoss
	case grossProfit > 0:
		out[KeyProfitFactor] = profitFactorCap
	}
}

// ExposureTime returns the share of the backtest window spent holding
// positions, as a percentage capped at 100.
func (c *Calculator) ExposureTime(trades []types.Position, totalHours float64) float64 {
	if totalHours <= 0 {
		return 0
	}

	var held float64
	for _, trade := range trades {
		if trade.ExitTime.IsSome() {
			held += trade.ExitTime.Unwrap().Sub(trade.EntryTime).Hours()
		}
	}

	exposure := held / totalHours * 100
	if exposure > 100 {
		return 100
	}

	return exposure
}

// annualizedReturn compounds the total return down to a yearly rate, in
// percent. A monotone input over less than one period returns zero.
func (c *Calculator) annualizedReturn(equity []float64) float64 {
	if len(equity) < 2 || equity[0] <= 0 {
		return 0
	}

	years := float64(len(equity)-1) / c.periodsPerYear
	if years <= 0 {
		return 0
	}

	ratio := equity[len(equity)-1] / equity[0]
	if ratio <= 0 {
		return -100
	}

	return (math.Pow(ratio, 1/years) - 1) * 100
}

// drawdownSeries returns the percentage drawdown from the running peak, one
// value per equity point. A monotonically rising curve is all zeros.
func drawdownSeries(equity []float64) []float64 {
	out := make([]float64, len(equity))

	peak := math.Inf(-1)
	for i, v := range equity {
		if v > peak {
			peak = v
		}

		if peak > 0 {
			out[i] = (v - peak) / peak * 100
		}
	}

	return out
}

// drawdownPeriods returns the length in bars of each contiguous stretch of
// negative drawdown.
func drawdownPeriods(drawdown []float64) []int {
	var (
		periods []int
		current int
	)

	for _, d := range drawdown {
		if d < 0 {
			current++

			continue
		}

		if current > 0 {
			periods = append(periods, current)
			current = 0
		}
	}

	if current > 0 {
		periods = append(periods, current)
	}

	return periods
}

func pctChanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}

		out = append(out, values[i]/values[i-1]-1)
	}

	return out
}

func meanSlice(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func minSlice(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	minV := values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
	}

	return minV
}

// sampleStd is the standard deviation with Bessel's correction, matching how
// return volatility is conventionally estimated.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := meanSlice(values)

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}

	variance /= float64(len(values) - 1)

	return math.Sqrt(variance)
}

func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := meanSlice(values)

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}

	return variance / float64(len(values))
}

func covariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}

	meanA := meanSlice(a)
	meanB := meanSlice(b)

	var sum float64
	for i := range a {
		sum += (a[i] - meanA) * (b[i] - meanB)
	}

	// sample covariance, matching np.cov's default
	return sum / float64(len(a)-1)
}

// VaR returns the historical value at risk of the return series at the given
// confidence level (e.g. 0.05), in percent.
func VaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	return percentile(returns, confidence*100) * 100
}

// CVaR returns the expected shortfall: the mean of returns at or below the
// VaR threshold, in percent.
func CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	threshold := percentile(returns, confidence*100)

	var (
		sum   float64
		count int
	)

	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count) * 100
}

// percentile linearly interpolates the p-th percentile of the values.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)

	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)

	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
