package tools

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/coincortex/coincortex/internal/models"
)

// calculateIndicator computes one technical indicator over daily bars,
// returning values whose dates fall inside [startDate, endDate].
func calculateIndicator(data []*models.MarketData, indicator string, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no data available")
	}

	sort.Slice(data, func(i, j int) bool {
		return data[i].Date < data[j].Date
	})

	switch indicator {
	case "close_50_sma":
		return calculateSMA(data, 50, startDate, endDate)
	case "close_200_sma":
		return calculateSMA(data, 200, startDate, endDate)
	case "close_10_ema":
		return calculateEMA(data, 10, startDate, endDate)
	case "rsi":
		return calculateRSI(data, 14, startDate, endDate)
	case "macd":
		return calculateMACD(data, startDate, endDate)
	case "macds":
		return calculateMACDSignal(data, startDate, endDate)
	case "macdh":
		return calculateMACDHistogram(data, startDate, endDate)
	case "boll":
		return calculateSMA(data, 20, startDate, endDate)
	case "boll_ub":
		return calculateBollingerBand(data, 20, 2, startDate, endDate)
	case "boll_lb":
		return calculateBollingerBand(data, 20, -2, startDate, endDate)
	case "atr":
		return calculateATR(data, 14, startDate, endDate)
	case "vwma":
		return calculateVWMA(data, 20, startDate, endDate)
	case "mfi":
		return calculateMFI(data, 14, startDate, endDate)
	default:
		return nil, fmt.Errorf("unsupported indicator: %s", indicator)
	}
}

func inWindow(dateStr string, startDate, endDate time.Time) bool {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return false
	}
	return !date.Before(startDate) && !date.After(endDate)
}

func calculateSMA(data []*models.MarketData, period int, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	var result []models.IndicatorValue

	for i := period - 1; i < len(data); i++ {
		if !inWindow(data[i].Date, startDate, endDate) {
			continue
		}

		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += data[j].Close
		}

		result = append(result, models.IndicatorValue{
			Date:  data[i].Date,
			Value: sum / float64(period),
		})
	}

	return result, nil
}

func calculateEMA(data []*models.MarketData, period int, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	emas, err := emaSeries(data, period)
	if err != nil {
		return nil, err
	}

	var result []models.IndicatorValue
	for i, ema := range emas {
		idx := period - 1 + i
		if inWindow(data[idx].Date, startDate, endDate) {
			result = append(result, models.IndicatorValue{
				Date:  data[idx].Date,
				Value: ema,
			})
		}
	}

	return result, nil
}

func calculateRSI(data []*models.MarketData, period int, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	if len(data) < period+1 {
		return nil, fmt.Errorf("insufficient data for RSI calculation")
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := data[i].Close - data[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	var result []models.IndicatorValue
	for i := period; i < len(data); i++ {
		change := data[i].Close - data[i-1].Close
		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		// Wilder smoothing
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		var rsi float64
		if avgLoss == 0 {
			rsi = 100
		} else {
			rs := avgGain / avgLoss
			rsi = 100 - (100 / (1 + rs))
		}

		if inWindow(data[i].Date, startDate, endDate) {
			result = append(result, models.IndicatorValue{
				Date:  data[i].Date,
				Value: rsi,
			})
		}
	}

	return result, nil
}

func calculateMACD(data []*models.MarketData, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	ema12, err := emaSeries(data, 12)
	if err != nil {
		return nil, err
	}
	ema26, err := emaSeries(data, 26)
	if err != nil {
		return nil, err
	}

	// ema26 starts at bar index 25; align ema12 to the same offset.
	ema12 = ema12[len(ema12)-len(ema26):]

	var result []models.IndicatorValue
	for i := range ema26 {
		idx := 25 + i
		if startDate.IsZero() || inWindow(data[idx].Date, startDate, endDate) {
			result = append(result, models.IndicatorValue{
				Date:  data[idx].Date,
				Value: ema12[i] - ema26[i],
			})
		}
	}

	return result, nil
}

func calculateMACDSignal(data []*models.MarketData, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	macdValues, err := calculateMACD(data, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	macdData := make([]*models.MarketData, len(macdValues))
	for i, val := range macdValues {
		macdData[i] = &models.MarketData{Date: val.Date, Close: val.Value}
	}

	signal, err := emaSeries(macdData, 9)
	if err != nil {
		return nil, err
	}

	var result []models.IndicatorValue
	for i, v := range signal {
		idx := 8 + i
		if startDate.IsZero() || inWindow(macdData[idx].Date, startDate, endDate) {
			result = append(result, models.IndicatorValue{
				Date:  macdData[idx].Date,
				Value: v,
			})
		}
	}

	return result, nil
}

func calculateMACDHistogram(data []*models.MarketData, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	macdValues, err := calculateMACD(data, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	signalValues, err := calculateMACDSignal(data, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	// Signal lags MACD by 8 bars; align on the shared tail.
	macdValues = macdValues[len(macdValues)-len(signalValues):]

	var result []models.IndicatorValue
	for i := range signalValues {
		if inWindow(signalValues[i].Date, startDate, endDate) {
			result = append(result, models.IndicatorValue{
				Date:  signalValues[i].Date,
				Value: macdValues[i].Value - signalValues[i].Value,
			})
		}
	}

	return result, nil
}

// calculateBollingerBand computes SMA + multiplier*stddev; a negative
// multiplier yields the lower band.
func calculateBollingerBand(data []*models.MarketData, period int, multiplier float64, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	var result []models.IndicatorValue

	for i := period - 1; i < len(data); i++ {
		if !inWindow(data[i].Date, startDate, endDate) {
			continue
		}

		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += data[j].Close
		}
		sma := sum / float64(period)

		var variance float64
		for j := i - period + 1; j <= i; j++ {
			diff := data[j].Close - sma
			variance += diff * diff
		}
		stdDev := math.Sqrt(variance / float64(period))

		result = append(result, models.IndicatorValue{
			Date:  data[i].Date,
			Value: sma + multiplier*stdDev,
		})
	}

	return result, nil
}

func calculateATR(data []*models.MarketData, period int, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	if len(data) < period+1 {
		return nil, fmt.Errorf("insufficient data for ATR calculation")
	}

	trueRanges := make([]float64, 0, len(data)-1)
	for i := 1; i < len(data); i++ {
		tr := data[i].High - data[i].Low
		tr = math.Max(tr, math.Abs(data[i].High-data[i-1].Close))
		tr = math.Max(tr, math.Abs(data[i].Low-data[i-1].Close))
		trueRanges = append(trueRanges, tr)
	}

	var result []models.IndicatorValue
	for i := period - 1; i < len(trueRanges); i++ {
		if !inWindow(data[i+1].Date, startDate, endDate) {
			continue
		}

		atr := 0.0
		for j := i - period + 1; j <= i; j++ {
			atr += trueRanges[j]
		}

		result = append(result, models.IndicatorValue{
			Date:  data[i+1].Date,
			Value: atr / float64(period),
		})
	}

	return result, nil
}

func calculateVWMA(data []*models.MarketData, period int, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	var result []models.IndicatorValue

	for i := period - 1; i < len(data); i++ {
		if !inWindow(data[i].Date, startDate, endDate) {
			continue
		}

		var totalVolume, weightedSum float64
		for j := i - period + 1; j <= i; j++ {
			totalVolume += float64(data[j].Volume)
			weightedSum += data[j].Close * float64(data[j].Volume)
		}

		var vwma float64
		if totalVolume > 0 {
			vwma = weightedSum / totalVolume
		}

		result = append(result, models.IndicatorValue{
			Date:  data[i].Date,
			Value: vwma,
		})
	}

	return result, nil
}

func calculateMFI(data []*models.MarketData, period int, startDate, endDate time.Time) ([]models.IndicatorValue, error) {
	if len(data) < period+1 {
		return nil, fmt.Errorf("insufficient data for MFI calculation")
	}

	var result []models.IndicatorValue
	for i := period; i < len(data); i++ {
		if !inWindow(data[i].Date, startDate, endDate) {
			continue
		}

		var positiveFlow, negativeFlow float64
		for j := i - period + 1; j <= i; j++ {
			if j == 0 {
				continue
			}

			typical := (data[j].High + data[j].Low + data[j].Close) / 3
			prevTypical := (data[j-1].High + data[j-1].Low + data[j-1].Close) / 3
			rawFlow := typical * float64(data[j].Volume)

			if typical > prevTypical {
				positiveFlow += rawFlow
			} else if typical < prevTypical {
				negativeFlow += rawFlow
			}
		}

		var mfi float64
		if negativeFlow == 0 {
			mfi = 100
		} else {
			ratio := positiveFlow / negativeFlow
			mfi = 100 - (100 / (1 + ratio))
		}

		result = append(result, models.IndicatorValue{
			Date:  data[i].Date,
			Value: mfi,
		})
	}

	return result, nil
}

// emaSeries returns the EMA for every bar from index period-1 onward.
func emaSeries(data []*models.MarketData, period int) ([]float64, error) {
	if len(data) < period {
		return nil, fmt.Errorf("insufficient data for EMA calculation")
	}

	multiplier := 2.0 / (float64(period) + 1.0)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i].Close
	}
	ema := sum / float64(period)

	result := make([]float64, 0, len(data)-period+1)
	result = append(result, ema)
	for i := period; i < len(data); i++ {
		ema = (data[i].Close * multiplier) + (ema * (1 - multiplier))
		result = append(result, ema)
	}

	return result, nil
}
