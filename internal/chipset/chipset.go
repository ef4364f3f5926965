// Package chipset turns raw platform and hardware identifiers reported by
// Android devices into a vendor brand and a marketing model name.
//
// Classification is a pure function of its input. Vendors are recognised
// by keyword membership in a fixed order (Qualcomm first, Unisoc last), and
// each vendor then applies its own extraction rules: a full marketing name
// wins over a bare numeric platform code, and numeric codes missing from
// the lookup tables are reported as the raw prefix plus the number.
package chipset

import (
	"fmt"
	"regexp"
	"strings"
)

// Brand is a chipset vendor.
type Brand string

const (
	Qualcomm  Brand = "Qualcomm"
	MediaTek  Brand = "MediaTek"
	HiSilicon Brand = "HiSilicon"
	Samsung   Brand = "Samsung"
	Unisoc    Brand = "Unisoc"
	Unknown   Brand = "Unknown"
)

// UnknownSource is the placeholder callers pass when no property yielded
// a usable identifier.
const UnknownSource = "unknown processor"

// UnknownModel is reported when nothing could be extracted.
const UnknownModel = "unknown"

// Fact is a classified chipset.
type Fact struct {
	Brand Brand
	Model string
}

func (f Fact) String() string {
	if f.Brand == Unknown && f.Model == UnknownModel {
		return UnknownModel
	}
	return string(f.Brand) + " " + f.Model
}

type vendor struct {
	brand    Brand
	keywords []string
	model    func(lower string) string
}

// vendors is tested in order; the first vendor with a keyword present in
// the lower-cased input classifies it.
var vendors = []vendor{
	{
		brand: Qualcomm,
		keywords: []string{
			"qualcomm", "snapdragon", "qcom", "msm", "sdm", "sm",
			"kona", "lahaina", "taro", "kalama", "pineapple",
		},
		model: qualcommModel,
	},
	{
		brand:    MediaTek,
		keywords: []string{"mediatek", "mtk", "mt"},
		model:    mediatekModel,
	},
	{
		brand:    HiSilicon,
		keywords: []string{"hisilicon", "kirin"},
		model:    hisiliconModel,
	},
	{
		brand:    Samsung,
		keywords: []string{"exynos"},
		model:    samsungModel,
	},
	{
		brand:    Unisoc,
		keywords: []string{"unisoc", "spreadtrum"},
		model:    unisocModel,
	},
}

var (
	snapdragonRe = regexp.MustCompile(`snapdragon\s*(\d+)`)
	msmRe        = regexp.MustCompile(`msm(\d+)`)
	sdmRe        = regexp.MustCompile(`sdm(\d+)`)
	smRe         = regexp.MustCompile(`sm(\d+)`)
	dimensityRe  = regexp.MustCompile(`dimensity\s*(\d+)`)
	helioRe      = regexp.MustCompile(`helio\s*([a-z]\d+)`)
	mtRe         = regexp.MustCompile(`mt(\d+)`)
	kirinRe      = regexp.MustCompile(`kirin\s*(\d+)`)
	exynosRe     = regexp.MustCompile(`exynos\s*(\d+)`)
	scRe         = regexp.MustCompile(`sc(\d+)`)
	residueRe    = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Classify maps a raw identifier such as "SM8450", "mt6889", "kirin990" or
// a /proc/cpuinfo model line to a Fact. It never fails; unrecognised input
// yields brand Unknown with the alphanumeric residue as model.
func Classify(raw string) Fact {
	lower := strings.ToLower(raw)
	for _, v := range vendors {
		if containsAny(lower, v.keywords) {
			return Fact{Brand: v.brand, Model: v.model(lower)}
		}
	}
	residue := strings.TrimSpace(residueRe.ReplaceAllString(raw, ""))
	if residue == "" || residue == UnknownSource {
		return Fact{Brand: Unknown, Model: UnknownModel}
	}
	return Fact{Brand: Unknown, Model: residue}
}

// Describe renders a chipset with its optional core count and maximum
// frequency, e.g. "Qualcomm Snapdragon 865 (8 cores) @ 2.8 GHz".
func Describe(f Fact, cores int, maxGHz float64) string {
	var b strings.Builder
	b.WriteString(f.String())
	if cores > 0 {
		fmt.Fprintf(&b, " (%d cores)", cores)
	}
	if maxGHz > 0 {
		fmt.Fprintf(&b, " @ %.1f GHz", maxGHz)
	}
	return b.String()
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func qualcommModel(s string) string {
	switch {
	case strings.Contains(s, "snapdragon"):
		if n, ok := firstGroup(snapdragonRe, s); ok {
			return "Snapdragon " + n
		}
		return "Snapdragon processor"
	case strings.Contains(s, "msm"):
		if n, ok := firstGroup(msmRe, s); ok {
			if name, known := legacyCodes[n]; known {
				return "Snapdragon " + name
			}
			return "MSM" + n
		}
		return "MSM processor"
	case strings.Contains(s, "sdm"):
		if n, ok := firstGroup(sdmRe, s); ok {
			return "Snapdragon " + n
		}
		return "SDM processor"
	case strings.Contains(s, "sm"):
		if n, ok := firstGroup(smRe, s); ok {
			if name, known := currentCodes[n]; known {
				return "Snapdragon " + name
			}
			return "SM" + n
		}
		return "SM processor"
	}
	for _, c := range codeNames {
		if strings.Contains(s, c.name) {
			return c.model
		}
	}
	if strings.Contains(s, "qcom") {
		return "Qualcomm processor"
	}
	return "processor"
}

func mediatekModel(s string) string {
	switch {
	case strings.Contains(s, "dimensity"):
		if n, ok := firstGroup(dimensityRe, s); ok {
			return "Dimensity " + n
		}
		return "Dimensity processor"
	case strings.Contains(s, "helio"):
		if n, ok := firstGroup(helioRe, s); ok {
			return "Helio " + strings.ToUpper(n)
		}
		return "Helio processor"
	case strings.Contains(s, "mt"):
		if n, ok := firstGroup(mtRe, s); ok {
			return "MT" + n
		}
		return "MT processor"
	}
	return "processor"
}

func hisiliconModel(s string) string {
	if strings.Contains(s, "kirin") {
		if n, ok := firstGroup(kirinRe, s); ok {
			return "Kirin " + n
		}
		return "Kirin processor"
	}
	return "processor"
}

func samsungModel(s string) string {
	if n, ok := firstGroup(exynosRe, s); ok {
		return "Exynos " + n
	}
	return "Exynos processor"
}

func unisocModel(s string) string {
	switch {
	case strings.Contains(s, "tiger"):
		return "Tiger processor"
	case strings.Contains(s, "sc"):
		if n, ok := firstGroup(scRe, s); ok {
			return "SC" + n
		}
		return "SC processor"
	}
	return "processor"
}
