package models

// MaxImagesCount bounds the registration image upload loop
const MaxImagesCount = 4

// Category is one selectable business category
type Category struct {
	Key    string
	Arabic string
}

// BusinessCategories maps the menu digit the user sends to a category.
// The numeric keys are part of the conversation contract.
var BusinessCategories = map[string]Category{
	"1":  {Key: "restaurants", Arabic: "مطاعم"},
	"2":  {Key: "cafes_roasters", Arabic: "مقاهي ومحامص"},
	"3":  {Key: "wedding_halls_events", Arabic: "قاعات أفراح ومناسبات"},
	"4":  {Key: "resorts_chalets", Arabic: "شاليهات ومنتجعات"},
	"5":  {Key: "digital_services", Arabic: "خدمات ومنتجات رقمية"},
	"6":  {Key: "gyms_health_centers", Arabic: "مراكز رياضية وصحية"},
	"7":  {Key: "fashion_stores", Arabic: "متاجر ملابس وإكسسوارات"},
	"8":  {Key: "beauty_salons", Arabic: "صوالين ومراكز تجميل نسائية"},
	"9":  {Key: "home_food_products", Arabic: "أسر منتجة ومشاريع منزلية"},
	"10": {Key: "plumbing_electrical", Arabic: "محلات سباكة وكهرباء"},
	"11": {Key: "stationery_books", Arabic: "محلات قرطاسية ومكتبات"},
	"12": {Key: "markets_groceries_retail", Arabic: "أسواق، بقالات، ومتاجر تجزئة"},
	"13": {Key: "bakeries_sweets", Arabic: "مخابز وحلويات"},
	"14": {Key: "barber_shops", Arabic: "صالونات حلاقة رجالية"},
	"15": {Key: "other_businesses", Arabic: "أنشطة أخرى/متنوعة"},
}

// CategoryOther is the key that routes registration through the custom-type step
const CategoryOther = "other_businesses"

// SocialPlatforms maps the digit the user sends to a platform name
var SocialPlatforms = map[string]string{
	"1": "instagram",
	"2": "snapchat",
	"3": "tiktok",
	"4": "x",
	"5": "facebook",
}

// Weekdays maps the digit the user sends to a working-day label
var Weekdays = map[string]string{
	"1": "السبت",
	"2": "الأحد",
	"3": "الإثنين",
	"4": "الثلاثاء",
	"5": "الأربعاء",
	"6": "الخميس",
	"7": "الجمعة",
}

// Contact preference values stored on the record
const (
	ContactPrefCall     = "call"
	ContactPrefWhatsApp = "whatsapp"
	ContactPrefBoth     = "both"
)
