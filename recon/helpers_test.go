package recon

import "github.com/rustyeddy/gridrecon/gridlog"

func ev(portfolio, user, msg, ts string) gridlog.EventRecord {
	return gridlog.EventRecord{
		Portfolio:           portfolio,
		UserID:              user,
		Message:             msg,
		Timestamp:           ts,
		NormalizedTimestamp: gridlog.NormalizeTime(ts),
	}
}

func leg(portfolio, status, exitType, exitTime string) gridlog.LegRecord {
	return gridlog.LegRecord{
		PortfolioName: portfolio,
		Status:        status,
		ExitType:      exitType,
		ExitTime:      exitTime,
	}
}

func fullSheet(name string, legs ...gridlog.LegRecord) gridlog.LegSheet {
	return gridlog.LegSheet{
		Name:    name,
		Columns: gridlog.LegColumns{PortfolioName: true, Status: true, ExitType: true, ExitTime: true},
		Records: legs,
	}
}

func set(portfolios ...string) PortfolioSet {
	s := PortfolioSet{}
	for _, p := range portfolios {
		s.Add(p)
	}
	return s
}
