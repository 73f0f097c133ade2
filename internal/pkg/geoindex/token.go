package geoindex

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/location-search/internal/domain"
)

// MaxTokenLength - ограничение длины токена в поисковом индексе
const MaxTokenLength = 32

// EncodeCell - SHA-256 от строки ячейки, base64url, первые 32 символа.
// Токен необратим и используется только как словарь поиска.
func EncodeCell(cell domain.CellID) domain.CellToken {
	sum := sha256.Sum256([]byte(cell))
	encoded := base64.URLEncoding.EncodeToString(sum[:])
	return domain.CellToken(encoded[:MaxTokenLength])
}

// EncodeCells - кодирование набора ячеек с сохранением порядка
func EncodeCells(cells []domain.CellID) []domain.CellToken {
	tokens := make([]domain.CellToken, len(cells))
	for i, c := range cells {
		tokens[i] = EncodeCell(c)
	}
	return tokens
}
