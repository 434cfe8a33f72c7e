package catalog

// MaxPageSize borne la taille de page : un client ne peut pas demander
// la collection entière d'un coup.
const MaxPageSize = 100

type PageRequest struct {
	Page  int64
	Limit int64
}

// Window décrit une page de résultats. Skip n'est jamais borné par le
// total : demander une page au-delà de la dernière est une requête
// valide qui renvoie une fenêtre vide.
type Window struct {
	Skip       int64 `json:"-"`
	Limit      int64 `json:"limit"`
	Page       int64 `json:"page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Paginate valide et borne la demande de page. page < 1 est ramené à 1,
// limit < 1 prend le défaut de l'endpoint, totalPages = ceil(total/limit)
// avec 0 pour une collection vide.
func Paginate(total int64, req PageRequest, defaultLimit int64) Window {
	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var totalPages int64
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Window{
		Skip:       (page - 1) * limit,
		Limit:      limit,
		Page:       page,
		Total:      total,
		TotalPages: totalPages,
	}
}
