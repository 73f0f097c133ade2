// Package docs Location Search API.
//
// Поиск заведений внутри произвольного полигона по токенному индексу
// иерархических ячеек H3. Каждое заведение хранит токены всех родительских
// ячеек; запрос превращает полигон в набор ячеек на подходящем разрешении,
// ищет строки индекса по пересечению токенов и точно отсекает кандидатов
// вне полигона.
//
// Основные возможности:
// - Загрузка заведений (по одному и пакетами) с проверкой цены, рейтинга и категорий
// - Поиск по полигону и по видимой области карты с фильтрами
// - Пакетная переиндексация через очередь
// - Справочник категорий
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
