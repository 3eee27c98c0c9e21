package engine

// LexiconEntry groups the keyword fragments that map to one category name.
type LexiconEntry struct {
	Category string
	Keywords []string
}

// Lexicon is the static fallback table consulted when no learned rule
// matches. Entries are evaluated in declaration order, not by keyword
// length, and resolve to a category name only, never a persisted id.
// Changing it is a deploy, not a store write.
type Lexicon []LexiconEntry

// Catch-all labels returned when nothing in the lexicon matches either.
const (
	CatchAllIncome  = "Otros Ingresos"
	CatchAllExpense = "Otros Gastos"
)

// DefaultLexicon returns the built-in category keyword table.
func DefaultLexicon() Lexicon {
	return Lexicon{
		{Category: "Alimentación", Keywords: []string{"rappi", "ifood", "restaurante", "comida", "almuerzo", "cena", "desayuno", "domicilio", "mcdonalds", "burger", "pizza", "crepes", "wok", "sushi", "panaderia", "supermercado", "exito", "jumbo", "carulla", "d1", "ara", "olimpica"}},
		{Category: "Transporte", Keywords: []string{"uber", "didi", "cabify", "taxi", "beat", "indriver", "gasolina", "peaje", "parqueadero", "estacion", "metro", "bus", "transmilenio", "mio"}},
		{Category: "Suscripciones", Keywords: []string{"netflix", "spotify", "amazon", "disney", "hbo", "youtube", "prime", "apple", "google", "icloud", "dropbox", "notion", "chatgpt", "openai"}},
		{Category: "Servicios", Keywords: []string{"epm", "etb", "claro", "movistar", "tigo", "une", "acueducto", "energia", "gas", "internet", "celular", "telefono"}},
		{Category: "Compras", Keywords: []string{"falabella", "alkosto", "homecenter", "mercadolibre", "amazon", "shein", "zara", "arturo", "tennis", "adidas", "nike"}},
		{Category: "Entretenimiento", Keywords: []string{"cine", "cinemark", "cineco", "teatro", "concierto", "bar", "discoteca", "juego", "steam", "playstation", "xbox"}},
		{Category: "Salud", Keywords: []string{"farmacia", "drogueria", "medico", "hospital", "clinica", "eps", "colsanitas", "sura", "coomeva", "consultorio", "odontologia", "laboratorio"}},
		{Category: "Educación", Keywords: []string{"universidad", "colegio", "curso", "udemy", "coursera", "platzi", "libro", "papeleria"}},
		{Category: "Café", Keywords: []string{"starbucks", "juan valdez", "oma", "tostao", "cafe"}},
		{Category: "Salario", Keywords: []string{"nomina", "salario", "sueldo", "quincena", "pago"}},
		{Category: "Freelance", Keywords: []string{"freelance", "proyecto", "honorarios", "consultoria"}},
		{Category: "Inversiones", Keywords: []string{"inversion", "dividendo", "rendimiento", "cdt", "fondo"}},
	}
}
