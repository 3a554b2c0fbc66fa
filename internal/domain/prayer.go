package domain

// PrayerTimes holds the five daily prayer times plus sunrise for one day,
// as "HH:MM" 24-hour strings in the location's local time.
type PrayerTimes struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
	Date    string `json:"date"`
}

// Prayer is a named prayer time.
type Prayer struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Prayers returns the five daily prayers in day order.
// Sunrise is excluded: it marks the end of Fajr, not a prayer.
func (pt *PrayerTimes) Prayers() []Prayer {
	return []Prayer{
		{Name: "Fajr", Time: pt.Fajr},
		{Name: "Dhuhr", Time: pt.Dhuhr},
		{Name: "Asr", Time: pt.Asr},
		{Name: "Maghrib", Time: pt.Maghrib},
		{Name: "Isha", Time: pt.Isha},
	}
}
