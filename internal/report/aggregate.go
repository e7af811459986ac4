package report

import (
	"sort"

	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/shared/request"

	"github.com/shopspring/decimal"
)

const unknownRouteName = "Unknown route"

// BuildDriverReports summarises the lines of each listed driver. Drivers
// without trips in the period still get a zeroed entry.
func BuildDriverReports(drivers []driver.Driver, lines []TripLine) []DriverReportResponse {
	byDriver := make(map[int64][]TripLine)
	for _, l := range lines {
		byDriver[l.DriverID] = append(byDriver[l.DriverID], l)
	}

	reports := make([]DriverReportResponse, 0, len(drivers))
	for _, d := range drivers {
		rep := DriverReportResponse{
			DriverID:           d.ID,
			DriverName:         d.Name,
			Status:             d.Status,
			TotalPayment:       decimal.Zero,
			TotalPaidPayment:   decimal.Zero,
			TotalUnpaidPayment: decimal.Zero,
			Trips:              []ReportTripResponse{},
		}
		for _, l := range byDriver[d.ID] {
			pay := l.Pay()
			rep.TotalTrips += l.Count()
			rep.TotalPayment = rep.TotalPayment.Add(pay)
			if l.IsPaid() {
				rep.TotalPaidTrips += l.Count()
				rep.TotalPaidPayment = rep.TotalPaidPayment.Add(pay)
			} else {
				rep.TotalUnpaidTrips += l.Count()
				rep.TotalUnpaidPayment = rep.TotalUnpaidPayment.Add(pay)
			}

			name := unknownRouteName
			if l.RouteKnown() {
				name = *l.RouteName
			}
			rep.Trips = append(rep.Trips, ReportTripResponse{
				TripID:        l.TripID,
				Date:          l.Date.Format(request.DateLayout),
				Time:          l.Time,
				RouteID:       l.RouteID,
				RouteName:     name,
				LoadNumber:    l.LoadNumber,
				Trips:         l.Count(),
				CostPerTrip:   l.DriverPay.Decimal,
				Total:         pay,
				IsPaid:        l.IsPaid(),
				PaidPayrollID: l.PaidPayrollID,
			})
		}
		reports = append(reports, rep)
	}
	return reports
}

// BuildStatistics computes revenue per driver and route usage over lines
// whose driver and route both resolve; daily shipments count every line.
func BuildStatistics(lines []TripLine) StatisticsResponse {
	revenue := make(map[int64]*DriverRevenueResponse)
	usage := make(map[int64]*RouteUsageResponse)
	daily := make(map[string]int)

	for _, l := range lines {
		day := l.Date.Format(request.DateLayout)
		daily[day] += l.Count()

		if !l.DriverKnown() || !l.RouteKnown() {
			continue
		}

		dr, ok := revenue[l.DriverID]
		if !ok {
			dr = &DriverRevenueResponse{DriverID: l.DriverID, DriverName: *l.DriverName, Revenue: decimal.Zero}
			revenue[l.DriverID] = dr
		}
		dr.Revenue = dr.Revenue.Add(l.Revenue())

		ru, ok := usage[l.RouteID]
		if !ok {
			ru = &RouteUsageResponse{RouteID: l.RouteID, RouteName: *l.RouteName, Details: []RouteUsageDetailResponse{}}
			usage[l.RouteID] = ru
		}
		ru.TotalTrips += l.Count()
		ru.Details = append(ru.Details, RouteUsageDetailResponse{
			TripID:        l.TripID,
			DriverID:      l.DriverID,
			DriverName:    *l.DriverName,
			Date:          day,
			Time:          l.Time,
			Trips:         l.Count(),
			TotalValue:    l.Revenue(),
			IsPaid:        l.IsPaid(),
			PaidPayrollID: l.PaidPayrollID,
		})
	}

	resp := StatisticsResponse{
		DriverRevenue:  make([]DriverRevenueResponse, 0, len(revenue)),
		RouteUsage:     make([]RouteUsageResponse, 0, len(usage)),
		DailyShipments: make([]DailyShipmentResponse, 0, len(daily)),
	}
	for _, dr := range revenue {
		resp.DriverRevenue = append(resp.DriverRevenue, *dr)
	}
	sort.Slice(resp.DriverRevenue, func(i, j int) bool {
		a, b := resp.DriverRevenue[i], resp.DriverRevenue[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.DriverID < b.DriverID
	})

	for _, ru := range usage {
		resp.RouteUsage = append(resp.RouteUsage, *ru)
	}
	sort.Slice(resp.RouteUsage, func(i, j int) bool {
		a, b := resp.RouteUsage[i], resp.RouteUsage[j]
		if a.TotalTrips != b.TotalTrips {
			return a.TotalTrips > b.TotalTrips
		}
		return a.RouteID < b.RouteID
	})

	for day, n := range daily {
		resp.DailyShipments = append(resp.DailyShipments, DailyShipmentResponse{Date: day, Trips: n})
	}
	sort.Slice(resp.DailyShipments, func(i, j int) bool {
		return resp.DailyShipments[i].Date < resp.DailyShipments[j].Date
	})

	return resp
}
