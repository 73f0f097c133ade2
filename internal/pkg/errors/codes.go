package errors

import "net/http"

var (
	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidResolution = New(
		"INVALID_RESOLUTION",
		"Cell has no parent at the requested resolution",
		http.StatusInternalServerError,
	)

	ErrInvalidPrice = New(
		"INVALID_PRICE",
		"Price must be one of $, $$, $$$, $$$$",
		http.StatusBadRequest,
	)

	ErrInvalidRating = New(
		"INVALID_RATING",
		"Invalid rating value",
		http.StatusBadRequest,
	)

	ErrInvalidCategory = New(
		"INVALID_CATEGORY",
		"Unknown category",
		http.StatusBadRequest,
	)

	ErrInvalidPolygon = New(
		"INVALID_POLYGON",
		"Polygon must have at least 2 valid vertices",
		http.StatusBadRequest,
	)

	ErrTooManyCells = New(
		"TOO_MANY_CELLS",
		"Query polygon requires too many candidate cells",
		http.StatusUnprocessableEntity,
	)

	ErrDanglingReference = New(
		"DANGLING_REFERENCE",
		"Index row references a missing location",
		http.StatusInternalServerError,
	)

	ErrReindexInProgress = New(
		"REINDEX_IN_PROGRESS",
		"Another reindex job is already running",
		http.StatusConflict,
	)

	ErrReindexJobNotFound = New(
		"REINDEX_JOB_NOT_FOUND",
		"Reindex job not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
