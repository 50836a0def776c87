package domain

import "sort"

// Table стол заведения
type Table struct {
	ID       int
	Capacity int
	Location string
}

// RequiredTables возвращает ceil(partySize / perTableCapacity)
func RequiredTables(partySize, perTableCapacity int) int {
	if partySize <= 0 || perTableCapacity <= 0 {
		return 0
	}
	return (partySize + perTableCapacity - 1) / perTableCapacity
}

// IsSuitable сообщает, вмещает ли стол компанию, оставляя не больше двух пустых мест
func (t Table) IsSuitable(partySize int) bool {
	return t.Capacity >= partySize && t.Capacity <= partySize+2
}

// SuitableTables возвращает подходящие столы, сначала меньшие, затем по номеру
func SuitableTables(pool []Table, partySize int) []Table {
	result := make([]Table, 0, len(pool))
	for _, t := range pool {
		if t.IsSuitable(partySize) {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Capacity != result[j].Capacity {
			return result[i].Capacity < result[j].Capacity
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// DefaultTables строит n одинаковых столов с номерами от 1
func DefaultTables(n, capacity int, location string) []Table {
	tables := make([]Table, n)
	for i := range tables {
		tables[i] = Table{ID: i + 1, Capacity: capacity, Location: location}
	}
	return tables
}

// TableIDs возвращает номера столов в исходном порядке
func TableIDs(tables []Table) []int {
	ids := make([]int, len(tables))
	for i, t := range tables {
		ids[i] = t.ID
	}
	return ids
}
