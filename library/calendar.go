package library

import (
	"fmt"
	"time"
)

// DateLayout is how every date is stored in the data file.
const DateLayout = "2006-01-02"

// NoDate is shown in place of a date that is empty or cannot be converted.
const NoDate = "-"

var (
	gregorianMonthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	jalaliMonthDays    = [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}
)

// ToJalali converts a stored "YYYY-MM-DD" date to the Solar Hijri calendar as
// "YYYY/MM/DD". Empty or malformed input yields NoDate.
func ToJalali(date string) string {
	t, err := parseDate(date)
	if err != nil || t.Year() < 1600 {
		return NoDate
	}
	y, m, d := gregorianToJalali(t.Year(), int(t.Month()), t.Day())
	return fmt.Sprintf("%04d/%02d/%02d", y, m, d)
}

// gregorianToJalali uses the 33-year arithmetic cycle, exact for dates from
// 1600 onwards.
func gregorianToJalali(year, month, day int) (int, int, int) {
	gy := year - 1600
	days := 365*gy + (gy+3)/4 - (gy+99)/100 + (gy+399)/400
	for i := 0; i < month-1; i++ {
		days += gregorianMonthDays[i]
	}
	if month > 2 && isGregorianLeap(year) {
		days++
	}
	days += day - 1

	jdays := days - 79
	cycles := jdays / 12053
	jdays %= 12053

	jy := 979 + 33*cycles + 4*(jdays/1461)
	jdays %= 1461
	if jdays >= 366 {
		jy += (jdays - 1) / 365
		jdays = (jdays - 1) % 365
	}

	jm := 0
	for jm < 11 && jdays >= jalaliMonthDays[jm] {
		jdays -= jalaliMonthDays[jm]
		jm++
	}
	return jy, jm + 1, jdays + 1
}

func isGregorianLeap(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func formatDate(t time.Time) string { return t.Format(DateLayout) }

// daysBetween counts whole days from a to b; both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// overdueDays is max(0, today - due). An unparseable due date never accrues.
func overdueDays(due string, today time.Time) int {
	d, err := parseDate(due)
	if err != nil {
		return 0
	}
	return max(0, daysBetween(d, today))
}
