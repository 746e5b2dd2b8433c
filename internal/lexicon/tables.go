package lexicon

// Inline linguistic tables for the Indonesian review corpus. These are code
// constants rather than config files: they change with the scoring policy,
// not with deployments.

// Stopwords are tokens carrying no ranking signal on this corpus.
var Stopwords = map[string]struct{}{
	"tempat": {}, "lokasi": {}, "di": {}, "ke": {}, "yang": {}, "dan": {},
	"ini": {}, "itu": {}, "ada": {}, "buat": {}, "sangat": {}, "banget": {},
	"untuk": {}, "yg": {}, "juga": {}, "dengan": {}, "secara": {},
	"karena": {}, "kalo": {}, "sih": {}, "nya": {}, "dr": {}, "dari": {},
	"wisata": {}, "camping": {}, "ground": {}, "kemah": {},
}

// NegationMarkers flip the polarity of a nearby keyword match
// ("tidak bersih" is not a positive match for "bersih").
var NegationMarkers = map[string]struct{}{
	"tidak": {}, "gak": {}, "kurang": {}, "jangan": {}, "bukan": {},
	"no": {}, "ga": {}, "minus": {}, "sayang": {}, "kecewa": {},
	"tapi": {}, "belum": {}, "agak": {}, "cuma": {}, "hanya": {},
}

// AntonymGroups list words that contradict a query term outright.
var AntonymGroups = map[string][]string{
	"bersih": {"kotor", "jorok", "bau", "sampah", "berantakan", "kumuh", "licin", "kurang"},
	"luas":   {"sempit", "sesak", "kecil", "padat"},
	"dingin": {"panas", "gerah", "sumuk"},
	"sepi":   {"ramai", "berisik", "padat", "gaduh", "pasar"},
	"tenang": {"berisik", "ramai", "gaduh", "terganggu"},
	"murah":  {"mahal", "pricey", "nembak", "boros"},
	"bagus":  {"jelek", "buruk", "kecewa", "zonk", "biasa", "kurang"},
	"ramah":  {"jutek", "galak", "kasar", "cuek", "lambat"},
	"aman":   {"rawan", "takut", "bahaya", "hilang"},
}

// KeywordSynonyms map a query token to surface forms that count as a match.
var KeywordSynonyms = map[string][]string{
	"angker":      {"seram", "mistis", "hantu", "menakutkan", "gelap", "kuntilanak", "pocong", "wingit", "singup"},
	"kamar mandi": {"toilet", "wc", "klozet", "mck", "kamar kecil", "km/wc", "kamar"},
	"bagus":       {"indah", "keren", "cakep", "jos", "mantap", "memukau", "estetik", "juara", "ok", "best", "good", "nice", "top"},
	"bersih":      {"terawat", "kinclong", "rapi", "higienis", "wangi"},
	"sejuk":       {"dingin", "adem", "segar", "asri", "kabut"},
	"listrik":     {"colokan", "stop kontak", "charging", "cas", "kabel", "cok"},
	"sungai":      {"kali", "river", "air", "aliran", "gemericik", "water"},
}

// IsStopword reports whether the token carries no ranking signal.
func IsStopword(token string) bool {
	_, ok := Stopwords[token]
	return ok
}

// IsNegation reports whether the word is a negation marker.
func IsNegation(word string) bool {
	_, ok := NegationMarkers[word]
	return ok
}
