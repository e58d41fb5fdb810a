package message

type labels struct {
	language      string
	header        string
	customer      string
	email         string
	products      string
	quantity      string
	without       string
	extras        string
	notes         string
	delivery      string
	street        string
	number        string
	zone          string
	phone         string
	deliveryNotes string
	total         string
}

var catalog = map[string]labels{
	"es": {
		language:      "🇪🇸 *ESPAÑOL*",
		header:        "🛒 *NUEVO PEDIDO*",
		customer:      "👤 Cliente",
		email:         "📧 Email",
		products:      "📦 *Productos:*",
		quantity:      "Cantidad",
		without:       "❌ Sin",
		extras:        "➕ Extras",
		notes:         "📝 Notas",
		delivery:      "📍 *Datos de entrega:*",
		street:        "Calle",
		number:        "Número",
		zone:          "Localidad",
		phone:         "📞 Teléfono",
		deliveryNotes: "💬 Notas de entrega",
		total:         "💰 *Total",
	},
	"en": {
		language:      "🇬🇧 *ENGLISH*",
		header:        "🛒 *NEW ORDER*",
		customer:      "👤 Customer",
		email:         "📧 Email",
		products:      "📦 *Products:*",
		quantity:      "Quantity",
		without:       "❌ Without",
		extras:        "➕ Extras",
		notes:         "📝 Notes",
		delivery:      "📍 *Delivery details:*",
		street:        "Street",
		number:        "Number",
		zone:          "Town",
		phone:         "📞 Phone",
		deliveryNotes: "💬 Delivery notes",
		total:         "💰 *Total",
	},
	"fr": {
		language:      "🇫🇷 *FRANÇAIS*",
		header:        "🛒 *NOUVELLE COMMANDE*",
		customer:      "👤 Client",
		email:         "📧 Email",
		products:      "📦 *Produits :*",
		quantity:      "Quantité",
		without:       "❌ Sans",
		extras:        "➕ Suppléments",
		notes:         "📝 Remarques",
		delivery:      "📍 *Livraison :*",
		street:        "Rue",
		number:        "Numéro",
		zone:          "Localité",
		phone:         "📞 Téléphone",
		deliveryNotes: "💬 Instructions de livraison",
		total:         "💰 *Total",
	},
}

// SupportedLocales lists the locales with their own labels
func SupportedLocales() []string {
	return []string{"es", "en", "fr"}
}
