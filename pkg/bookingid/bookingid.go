// Package bookingid генерирует публичные идентификаторы бронирований вида BK + 16 символов base32.
package bookingid

import (
	"encoding/base32"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Prefix префикс всех идентификаторов
const Prefix = "BK"

// entropyBytes 10 байт = 80 бит = ровно 16 символов base32 без паддинга
const entropyBytes = 10

var pattern = regexp.MustCompile(`^BK[A-Z2-7]{16}$`)

// Generator генератор на основе случайного UUID v4
type Generator struct{}

// NewGenerator создает генератор
func NewGenerator() *Generator {
	return &Generator{}
}

// NewID возвращает новый идентификатор
func (g *Generator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return Prefix + base32.StdEncoding.EncodeToString(id[:entropyBytes]), nil
}

// Valid проверяет формат идентификатора
func Valid(id string) bool {
	return pattern.MatchString(id)
}

// Normalize приводит введенный пользователем идентификатор к каноническому виду
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
