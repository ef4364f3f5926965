package chipset

// legacyCodes maps MSM platform numbers to Snapdragon marketing names.
var legacyCodes = map[string]string{
	"8998": "835",
	"8996": "820/821",
	"8994": "810",
	"8992": "808",
	"8974": "801",
	"8960": "S4 Pro",
	"8660": "S3",
	"8255": "S2",
	"7227": "S1",
}

// currentCodes maps SM platform numbers to Snapdragon marketing names.
var currentCodes = map[string]string{
	"8750": "8 Elite Gen 1",
	"8650": "8 Gen 3",
	"8550": "8 Gen 2",
	"8475": "8+ Gen 1",
	"8450": "8 Gen 1",
	"8350": "888",
	"8250": "865",
	"8150": "855",
	"7325": "778G",
	"7225": "750G",
	"6375": "695",
	"6350": "690",
}

// codeNames are Qualcomm board platform code names, checked in order.
var codeNames = []struct {
	name  string
	model string
}{
	{"sun", "Snapdragon 8 Elite Gen 1 (sun)"},
	{"pineapple", "Snapdragon 8 Gen 3 (pineapple)"},
	{"kona", "Snapdragon 865 (kona)"},
	{"lahaina", "Snapdragon 888 (lahaina)"},
	{"taro", "Snapdragon 8 Gen 1 (taro)"},
	{"kalama", "Snapdragon 8 Gen 2 (kalama)"},
}
