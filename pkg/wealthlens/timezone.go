package wealthlens

import "time"

const kolkataTimeZoneName = "Asia/Kolkata"

var kolkataLocation = loadKolkataLocation()

func loadKolkataLocation() *time.Location {
	location, err := time.LoadLocation(kolkataTimeZoneName)
	if err != nil {
		return time.FixedZone(kolkataTimeZoneName, 5*3600+30*60)
	}
	return location
}

// NowInKolkata returns current time in Asia/Kolkata.
func NowInKolkata() time.Time {
	return time.Now().In(kolkataLocation)
}

// TodayISOInKolkata returns current date using YYYY-MM-DD in Asia/Kolkata.
func TodayISOInKolkata() string {
	return NowInKolkata().Format("2006-01-02")
}

// NowRFC3339InKolkata returns current RFC3339 timestamp in Asia/Kolkata.
func NowRFC3339InKolkata() string {
	return NowInKolkata().Format(time.RFC3339)
}
