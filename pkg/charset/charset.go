// Package charset holds the catalogue of character sets and collations a
// MySQL-family server understands, and checks whether text survives
// conversion into a given character set.
package charset

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Charset describes a server character set.
type Charset struct {
	Name             string
	Description      string
	DefaultCollation string
	MaxLen           int // bytes per character

	enc       encoding.Encoding // nil when no x/text encoding matches
	maxRune   rune              // upper bound for Unicode-subset charsets, 0 = none
	anyOctets bool              // binary accepts every byte sequence
}

// Collation describes a server collation.
type Collation struct {
	Name    string
	Charset string
	Default bool
}

var charsets = map[string]*Charset{}

var collations = map[string]*Collation{}

func register(cs *Charset, extra ...string) {
	charsets[cs.Name] = cs
	collations[cs.DefaultCollation] = &Collation{Name: cs.DefaultCollation, Charset: cs.Name, Default: true}
	if cs.Name != "binary" {
		bin := cs.Name + "_bin"
		collations[bin] = &Collation{Name: bin, Charset: cs.Name}
	}
	for _, name := range extra {
		collations[name] = &Collation{Name: name, Charset: cs.Name}
	}
}

func init() {
	register(&Charset{Name: "armscii8", Description: "ARMSCII-8 Armenian", DefaultCollation: "armscii8_general_ci", MaxLen: 1})
	register(&Charset{Name: "ascii", Description: "US ASCII", DefaultCollation: "ascii_general_ci", MaxLen: 1, maxRune: 0x7f})
	register(&Charset{Name: "big5", Description: "Big5 Traditional Chinese", DefaultCollation: "big5_chinese_ci", MaxLen: 2, enc: traditionalchinese.Big5})
	register(&Charset{Name: "binary", Description: "Binary pseudo charset", DefaultCollation: "binary", MaxLen: 1, anyOctets: true})
	register(&Charset{Name: "cp1250", Description: "Windows Central European", DefaultCollation: "cp1250_general_ci", MaxLen: 1, enc: charmap.Windows1250},
		"cp1250_czech_cs", "cp1250_croatian_ci", "cp1250_polish_ci")
	register(&Charset{Name: "cp1251", Description: "Windows Cyrillic", DefaultCollation: "cp1251_general_ci", MaxLen: 1, enc: charmap.Windows1251},
		"cp1251_bulgarian_ci", "cp1251_ukrainian_ci", "cp1251_general_cs")
	register(&Charset{Name: "cp1256", Description: "Windows Arabic", DefaultCollation: "cp1256_general_ci", MaxLen: 1, enc: charmap.Windows1256})
	register(&Charset{Name: "cp1257", Description: "Windows Baltic", DefaultCollation: "cp1257_general_ci", MaxLen: 1, enc: charmap.Windows1257},
		"cp1257_lithuanian_ci")
	register(&Charset{Name: "cp850", Description: "DOS West European", DefaultCollation: "cp850_general_ci", MaxLen: 1, enc: charmap.CodePage850})
	register(&Charset{Name: "cp852", Description: "DOS Central European", DefaultCollation: "cp852_general_ci", MaxLen: 1, enc: charmap.CodePage852})
	register(&Charset{Name: "cp866", Description: "DOS Russian", DefaultCollation: "cp866_general_ci", MaxLen: 1, enc: charmap.CodePage866})
	register(&Charset{Name: "cp932", Description: "SJIS for Windows Japanese", DefaultCollation: "cp932_japanese_ci", MaxLen: 2, enc: japanese.ShiftJIS})
	register(&Charset{Name: "dec8", Description: "DEC West European", DefaultCollation: "dec8_swedish_ci", MaxLen: 1})
	register(&Charset{Name: "eucjpms", Description: "UJIS for Windows Japanese", DefaultCollation: "eucjpms_japanese_ci", MaxLen: 3, enc: japanese.EUCJP})
	register(&Charset{Name: "euckr", Description: "EUC-KR Korean", DefaultCollation: "euckr_korean_ci", MaxLen: 2, enc: korean.EUCKR})
	register(&Charset{Name: "gb18030", Description: "China National Standard GB18030", DefaultCollation: "gb18030_chinese_ci", MaxLen: 4, enc: simplifiedchinese.GB18030},
		"gb18030_unicode_520_ci")
	register(&Charset{Name: "gb2312", Description: "GB2312 Simplified Chinese", DefaultCollation: "gb2312_chinese_ci", MaxLen: 2, enc: simplifiedchinese.HZGB2312})
	register(&Charset{Name: "gbk", Description: "GBK Simplified Chinese", DefaultCollation: "gbk_chinese_ci", MaxLen: 2, enc: simplifiedchinese.GBK})
	register(&Charset{Name: "geostd8", Description: "GEOSTD8 Georgian", DefaultCollation: "geostd8_general_ci", MaxLen: 1})
	register(&Charset{Name: "greek", Description: "ISO 8859-7 Greek", DefaultCollation: "greek_general_ci", MaxLen: 1, enc: charmap.ISO8859_7})
	register(&Charset{Name: "hebrew", Description: "ISO 8859-8 Hebrew", DefaultCollation: "hebrew_general_ci", MaxLen: 1, enc: charmap.ISO8859_8})
	register(&Charset{Name: "hp8", Description: "HP West European", DefaultCollation: "hp8_english_ci", MaxLen: 1})
	register(&Charset{Name: "keybcs2", Description: "DOS Kamenicky Czech-Slovak", DefaultCollation: "keybcs2_general_ci", MaxLen: 1})
	register(&Charset{Name: "koi8r", Description: "KOI8-R Relcom Russian", DefaultCollation: "koi8r_general_ci", MaxLen: 1, enc: charmap.KOI8R})
	register(&Charset{Name: "koi8u", Description: "KOI8-U Ukrainian", DefaultCollation: "koi8u_general_ci", MaxLen: 1, enc: charmap.KOI8U})
	register(&Charset{Name: "latin1", Description: "cp1252 West European", DefaultCollation: "latin1_swedish_ci", MaxLen: 1, enc: charmap.Windows1252},
		"latin1_german1_ci", "latin1_danish_ci", "latin1_german2_ci", "latin1_general_ci", "latin1_general_cs", "latin1_spanish_ci")
	register(&Charset{Name: "latin2", Description: "ISO 8859-2 Central European", DefaultCollation: "latin2_general_ci", MaxLen: 1, enc: charmap.ISO8859_2},
		"latin2_czech_cs", "latin2_hungarian_ci", "latin2_croatian_ci")
	register(&Charset{Name: "latin5", Description: "ISO 8859-9 Turkish", DefaultCollation: "latin5_turkish_ci", MaxLen: 1, enc: charmap.ISO8859_9})
	register(&Charset{Name: "latin7", Description: "ISO 8859-13 Baltic", DefaultCollation: "latin7_general_ci", MaxLen: 1, enc: charmap.ISO8859_13},
		"latin7_estonian_cs", "latin7_general_cs")
	register(&Charset{Name: "macce", Description: "Mac Central European", DefaultCollation: "macce_general_ci", MaxLen: 1})
	register(&Charset{Name: "macroman", Description: "Mac West European", DefaultCollation: "macroman_general_ci", MaxLen: 1, enc: charmap.Macintosh})
	register(&Charset{Name: "sjis", Description: "Shift-JIS Japanese", DefaultCollation: "sjis_japanese_ci", MaxLen: 2, enc: japanese.ShiftJIS})
	register(&Charset{Name: "swe7", Description: "7bit Swedish", DefaultCollation: "swe7_swedish_ci", MaxLen: 1})
	register(&Charset{Name: "tis620", Description: "TIS620 Thai", DefaultCollation: "tis620_thai_ci", MaxLen: 1, enc: charmap.Windows874})
	register(&Charset{Name: "ucs2", Description: "UCS-2 Unicode", DefaultCollation: "ucs2_general_ci", MaxLen: 2, maxRune: 0xffff},
		"ucs2_unicode_ci")
	register(&Charset{Name: "ujis", Description: "EUC-JP Japanese", DefaultCollation: "ujis_japanese_ci", MaxLen: 3, enc: japanese.EUCJP})
	register(&Charset{Name: "utf16", Description: "UTF-16 Unicode", DefaultCollation: "utf16_general_ci", MaxLen: 4},
		"utf16_unicode_ci")
	register(&Charset{Name: "utf16le", Description: "UTF-16LE Unicode", DefaultCollation: "utf16le_general_ci", MaxLen: 4})
	register(&Charset{Name: "utf32", Description: "UTF-32 Unicode", DefaultCollation: "utf32_general_ci", MaxLen: 4},
		"utf32_unicode_ci")
	register(&Charset{Name: "utf8mb3", Description: "UTF-8 Unicode (BMP only)", DefaultCollation: "utf8mb3_general_ci", MaxLen: 3, maxRune: 0xffff},
		"utf8mb3_unicode_ci", "utf8mb3_unicode_520_ci", "utf8mb3_general_mysql500_ci")
	register(&Charset{Name: "utf8mb4", Description: "UTF-8 Unicode", DefaultCollation: "utf8mb4_general_ci", MaxLen: 4},
		"utf8mb4_unicode_ci", "utf8mb4_unicode_520_ci", "utf8mb4_0900_ai_ci", "utf8mb4_0900_as_ci",
		"utf8mb4_0900_as_cs", "utf8mb4_0900_bin", "utf8mb4_uca1400_ai_ci", "utf8mb4_nopad_bin")
}

// normalize maps the deprecated utf8 alias onto utf8mb3.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "utf8" {
		return "utf8mb3"
	}
	if rest, ok := strings.CutPrefix(name, "utf8_"); ok {
		return "utf8mb3_" + rest
	}
	return name
}

// Lookup returns the character set with the given name.
func Lookup(name string) (*Charset, bool) {
	cs, ok := charsets[normalize(name)]
	return cs, ok
}

// LookupCollation returns the collation with the given name.
func LookupCollation(name string) (*Collation, bool) {
	c, ok := collations[normalize(name)]
	return c, ok
}

// Names returns all character set names, sorted.
func Names() []string {
	names := make([]string, 0, len(charsets))
	for name := range charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accepts reports whether collation belongs to the character set.
func (cs *Charset) Accepts(collation string) bool {
	c, ok := LookupCollation(collation)
	return ok && c.Charset == cs.Name
}

// Collation returns the character set's default collation.
func (cs *Charset) Collation() *Collation {
	return collations[cs.DefaultCollation]
}

// CanRepresent reports whether s can be stored in the character set without
// loss. Character sets without a known encoding are assumed to accept s.
func (cs *Charset) CanRepresent(s string) bool {
	if cs.anyOctets {
		return true
	}
	if !utf8.ValidString(s) {
		return false
	}
	if cs.maxRune > 0 {
		for _, r := range s {
			if r > cs.maxRune {
				return false
			}
		}
		return true
	}
	if cs.enc == nil {
		return true
	}
	_, err := cs.enc.NewEncoder().String(s)
	return err == nil
}
