package rules

import "time"

const MinSignupAge = 18

// Age computes full calendar years between birthdate and now: the year
// difference, minus one when the birthday has not yet occurred this year.
func Age(birthdate, now time.Time) int {
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// BirthdateWindow returns the inclusive birthdate range for candidates aged
// [ageMin, ageMax] at the given instant. Someone is at most ageMax until the
// day before their (ageMax+1)th birthday, and at least ageMin from their
// ageMin-th birthday onward.
func BirthdateWindow(ageMin, ageMax int, now time.Time) (earliest, latest time.Time) {
	earliest = time.Date(now.Year()-ageMax-1, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	latest = time.Date(now.Year()-ageMin, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return earliest, latest
}
