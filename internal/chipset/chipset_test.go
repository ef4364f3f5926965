package chipset

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw   string
		brand Brand
		model string
	}{
		{"SM8450", Qualcomm, "Snapdragon 8 Gen 1"},
		{"sm8650", Qualcomm, "Snapdragon 8 Gen 3"},
		{"sm7150", Qualcomm, "SM7150"},
		{"msm8998", Qualcomm, "Snapdragon 835"},
		{"msm8937", Qualcomm, "MSM8937"},
		{"sdm845", Qualcomm, "Snapdragon 845"},
		{"Qualcomm Technologies, Inc SM8250", Qualcomm, "Snapdragon 865"},
		{"Snapdragon 8 Gen 2", Qualcomm, "Snapdragon 8"},
		{"kona", Qualcomm, "Snapdragon 865 (kona)"},
		{"taro", Qualcomm, "Snapdragon 8 Gen 1 (taro)"},
		{"qcom", Qualcomm, "Qualcomm processor"},
		{"MT6889", MediaTek, "MT6889"},
		{"mt6768", MediaTek, "MT6768"},
		{"MediaTek Dimensity 9000", MediaTek, "Dimensity 9000"},
		{"mediatek helio g99", MediaTek, "Helio G99"},
		{"mtk", MediaTek, "MT processor"},
		{"kirin990", HiSilicon, "Kirin 990"},
		{"HiSilicon", HiSilicon, "processor"},
		{"Exynos 2100", Samsung, "Exynos 2100"},
		{"exynos", Samsung, "Exynos processor"},
		{"unisoc tiger t618", Unisoc, "Tiger processor"},
		{"spreadtrum sc9863a", Unisoc, "SC9863"},
		{"gs101", Unknown, "gs101"},
		{"Tensor G2!", Unknown, "Tensor G2"},
		{"unknown processor", Unknown, UnknownModel},
		{"", Unknown, UnknownModel},
		{"???", Unknown, UnknownModel},
	}
	for _, tt := range tests {
		got := Classify(tt.raw)
		if got.Brand != tt.brand || got.Model != tt.model {
			t.Errorf("Classify(%q) = {%s, %q}, want {%s, %q}", tt.raw, got.Brand, got.Model, tt.brand, tt.model)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "sm", "msm", "sdm", "mt", "sc", "kirin", "helio", "dimensity",
		"snapdragon", "\x00\xff", "SM99999999999999999999", "日本語", "unisoc", "pineapple"}
	for _, in := range inputs {
		got := Classify(in)
		if got.Brand == "" || got.Model == "" {
			t.Errorf("Classify(%q) = %+v, want non-empty brand and model", in, got)
		}
		if again := Classify(in); again != got {
			t.Errorf("Classify(%q) not deterministic: %+v then %+v", in, got, again)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		fact  Fact
		cores int
		ghz   float64
		want  string
	}{
		{Fact{Qualcomm, "Snapdragon 865"}, 8, 2.84, "Qualcomm Snapdragon 865 (8 cores) @ 2.8 GHz"},
		{Fact{MediaTek, "MT6889"}, 0, 0, "MediaTek MT6889"},
		{Fact{Unknown, "gs101"}, 8, 0, "Unknown gs101 (8 cores)"},
		{Fact{Unknown, UnknownModel}, 0, 0, "unknown"},
	}
	for _, tt := range tests {
		if got := Describe(tt.fact, tt.cores, tt.ghz); got != tt.want {
			t.Errorf("Describe(%+v, %d, %v) = %q, want %q", tt.fact, tt.cores, tt.ghz, got, tt.want)
		}
	}
}
