package domain

import (
	"sort"
	"time"
)

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval строит интервал по началу и длительности в минутах
func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Overlaps сообщает, пересекаются ли интервалы.
// Соприкасающиеся интервалы (a.End == b.Start) не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

// Overlaps сообщает, есть ли у a и b общий момент
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// ClaimedTables возвращает отсортированные номера столов подтвержденных броней, пересекающих интервал
func ClaimedTables(interval Interval, reservations []*Reservation) []int {
	seen := make(map[int]struct{})
	for _, r := range reservations {
		if !r.IsConfirmed() || !Overlaps(interval, r.Interval()) {
			continue
		}
		for _, t := range r.TableNumbers {
			seen[t] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// ConflictingTables возвращает запрошенные столы, уже занятые пересекающимися подтвержденными бронями
func ConflictingTables(requested []int, interval Interval, reservations []*Reservation) []int {
	claimed := ClaimedTables(interval, reservations)
	if len(claimed) == 0 || len(requested) == 0 {
		return nil
	}

	claimedSet := make(map[int]struct{}, len(claimed))
	for _, t := range claimed {
		claimedSet[t] = struct{}{}
	}

	conflicts := make(map[int]struct{})
	for _, t := range requested {
		if _, ok := claimedSet[t]; ok {
			conflicts[t] = struct{}{}
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	return sortedKeys(conflicts)
}

func sortedKeys(set map[int]struct{}) []int {
	result := make([]int, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Ints(result)
	return result
}

func sortByInstant[T any](items []T, key func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]).Before(key(items[j]))
	})
}

// SortReservations сортирует брони по времени начала, затем по идентификатору
func SortReservations(reservations []*Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if !a.StartInstant.Equal(b.StartInstant) {
			return a.StartInstant.Before(b.StartInstant)
		}
		return a.BookingID < b.BookingID
	})
}
