package lexer

// keywords maps lowercase SQL keywords to their token types.
// Uses a two-level lookup: first by length bucket, then by linear scan
// for O(1) average-case performance with zero allocations.

// kwEntry is a keyword table entry.
type kwEntry struct {
	word string
	tok  TokenType
}

// Keywords organized by string length for fast dispatch.
// The lexer lowercases the candidate before lookup.
var keywordsByLen [32][]kwEntry

// reservedWords is the set of keyword lexemes (lowercase) that can never
// appear where an identifier is expected. Everything else in the keyword
// range is an identifier-keyword (spec 4.1): lexed as a keyword token, but
// the parser's identifier production accepts it too.
var reservedWords = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "and": {}, "or": {}, "not": {},
	"as": {}, "in": {}, "is": {}, "on": {}, "join": {}, "case": {}, "asc": {},
	"desc": {},
	"when": {}, "then": {}, "else": {}, "end": {}, "null": {}, "true": {},
	"false": {}, "group": {}, "having": {}, "order": {}, "by": {},
	"limit": {}, "union": {}, "except": {}, "intersect": {}, "insert": {},
	"update": {}, "delete": {}, "create": {}, "alter": {}, "drop": {},
	"into": {}, "values": {}, "set": {}, "with": {}, "distinct": {},
	"exists": {}, "between": {}, "like": {}, "cast": {}, "all": {},
	"cross": {}, "full": {}, "inner": {}, "left": {}, "outer": {},
	"right": {}, "window": {},
}

// IdentifierKeywords is the immutable, process-wide set (lowercase) of
// keyword lexemes admissible as identifiers in DDL positions (spec 4.1):
// every keyword not in reservedWords, computed once at load time.
var IdentifierKeywords = map[string]struct{}{}

// ReservedWords exposes reservedWords read-only for the serializer's
// identifier-quoting decision (spec 4.1, 4.6).
var ReservedWords = reservedWords

func init() {
	words := []kwEntry{
		{"account", ACCOUNT},
		{"add", ADD},
		{"after", AFTER},
		{"align", ALIGN},
		{"all", ALL},
		{"alter", ALTER},
		{"and", AND},
		{"as", AS},
		{"asc", ASC},
		{"asof", ASOF},
		{"assume", ASSUME},
		{"atomic", ATOMIC},
		{"attach", ATTACH},
		{"auto_refresh", AUTO_REFRESH},
		{"backup", BACKUP},
		{"batch", BATCH},
		{"between", BETWEEN},
		{"by", BY},
		{"calendar", CALENDAR},
		{"cancel", CANCEL},
		{"cast", CAST},
		{"case", CASE},
		{"checkpoint", CHECKPOINT},
		{"column", COLUMN},
		{"columns", COLUMNS},
		{"compression_codec", COMPRESSION_CODEC},
		{"convert", CONVERT},
		{"copy", COPY},
		{"create", CREATE},
		{"cross", CROSS},
		{"database", DATABASE},
		{"declare", DECLARE},
		{"dedup", DEDUP},
		{"default", DEFAULT},
		{"delete", DELETE},
		{"desc", DESC},
		{"detach", DETACH},
		{"disable", DISABLE},
		{"distinct", DISTINCT},
		{"drop", DROP},
		{"else", ELSE},
		{"enable", ENABLE},
		{"end", END},
		{"except", EXCEPT},
		{"exclude", EXCLUDE},
		{"exists", EXISTS},
		{"exit", EXIT},
		{"explain", EXPLAIN},
		{"false", FALSE_KW},
		{"fill", FILL},
		{"first", FIRST},
		{"for", FOR},
		{"format", FORMAT},
		{"from", FROM},
		{"full", FULL},
		{"grant", GRANT},
		{"group", GROUP},
		{"groups", GROUPS},
		{"having", HAVING},
		{"if", IF},
		{"ignore", IGNORE},
		{"in", IN},
		{"include", INCLUDE},
		{"index", INDEX},
		{"inner", INNER},
		{"insert", INSERT},
		{"intersect", INTERSECT},
		{"into", INTO},
		{"is", IS},
		{"join", JOIN},
		{"key", KEY},
		{"keys", KEYS},
		{"last", LAST},
		{"latest", LATEST},
		{"left", LEFT},
		{"like", LIKE},
		{"limit", LIMIT},
		{"lt", LT_JOIN},
		{"materialized", MATERIALIZED},
		{"not", NOT},
		{"null", NULL_KW},
		{"observation", OBSERVATION},
		{"offset", OFFSET},
		{"on", ON},
		{"operation", OPERATION},
		{"or", OR},
		{"order", ORDER},
		{"outer", OUTER},
		{"owned", OWNED},
		{"parameters", PARAMETERS},
		{"partition", PARTITION},
		{"partitions", PARTITIONS},
		{"password", PASSWORD},
		{"permissions", PERMISSIONS},
		{"pivot", PIVOT},
		{"prevailing", PREVAILING},
		{"query", QUERY},
		{"range", RANGE},
		{"refresh", REFRESH},
		{"reindex", REINDEX},
		{"rename", RENAME},
		{"resume", RESUME},
		{"revoke", REVOKE},
		{"right", RIGHT},
		{"rollback", ROLLBACK},
		{"sample", SAMPLE},
		{"select", SELECT},
		{"server_version", SERVER_VERSION},
		{"service", SERVICE},
		{"set", SET},
		{"show", SHOW},
		{"snapshot", SNAPSHOT},
		{"splice", SPLICE},
		{"squash", SQUASH},
		{"suspend", SUSPEND},
		{"table", TABLE},
		{"tables", TABLES},
		{"then", THEN},
		{"time", TIME},
		{"timestamp", TIMESTAMP_KW},
		{"to", TO},
		{"tolerance", TOLERANCE},
		{"true", TRUE_KW},
		{"truncate", TRUNCATE},
		{"ttl", TTL},
		{"type", TYPE},
		{"union", UNION},
		{"update", UPDATE},
		{"upsert", UPSERT},
		{"user", USER},
		{"users", USERS},
		{"using", USING},
		{"vacuum", VACUUM},
		{"values", VALUES},
		{"view", VIEW},
		{"volume", VOLUME},
		{"wal", WAL},
		{"when", WHEN},
		{"where", WHERE},
		{"window", WINDOW},
		{"with", WITH},
		{"within", WITHIN},
		{"zone", ZONE},

		// data types
		{"array", ARRAY},
		{"bigint", BIGINT},
		{"binary", BINARY},
		{"boolean", BOOLEAN},
		{"byte", BYTE},
		{"char", CHAR},
		{"date", DATE},
		{"double", DOUBLE},
		{"float", FLOAT_KW},
		{"geohash", GEOHASH_KW},
		{"int", INT_KW},
		{"long", LONG},
		{"long256", LONG256},
		{"short", SHORT},
		{"string", STRING_KW},
		{"symbol", SYMBOL},
		{"uuid", UUID},
		{"varchar", VARCHAR},
	}
	for _, e := range words {
		l := len(e.word)
		if l < len(keywordsByLen) {
			keywordsByLen[l] = append(keywordsByLen[l], e)
		}
		if _, reserved := reservedWords[e.word]; !reserved {
			IdentifierKeywords[e.word] = struct{}{}
		}
	}
}

// lookupKeyword returns the token for a keyword, or IDENT if not found.
// val must be lowercase. This function performs zero allocations.
func lookupKeyword(val []byte) TokenType {
	l := len(val)
	if l == 0 || l >= len(keywordsByLen) {
		return IDENT
	}
	bucket := keywordsByLen[l]
	for i := range bucket {
		if bytesEqualString(val, bucket[i].word) {
			return bucket[i].tok
		}
	}
	return IDENT
}

func bytesEqualString(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		if b[i] != s[i] {
			return false
		}
	}
	return true
}
