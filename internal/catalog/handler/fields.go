package handler

// SearchField ties a search-form input name to the catalog category it fills.
type SearchField struct {
	Key      string `json:"key"`
	Category string `json:"category"`
}

// SearchFields is the vocabulary offered by the search form. The parser
// accepts any category; this list only decides which inputs a shopper sees.
var SearchFields = []SearchField{
	{"aba", "aba"},
	{"altura", "altura"},
	{"boca", "boca"},
	{"busto", "busto"},
	{"cano", "cano"},
	{"cava", "cava"},
	{"cintura", "cintura"},
	{"circunferencia", "circunferência"},
	{"comprimento", "comprimento"},
	{"comprimento_manga", "comprimento manga"},
	{"comprimento_total", "comprimento total"},
	{"entrepernas", "entrepernas"},
	{"gancho", "gancho"},
	{"punho", "punho"},
	{"quadril", "quadril"},
	{"salto", "salto"},
	{"solado", "solado"},
}
