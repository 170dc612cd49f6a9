package models

// SensorySettings controls animation, sound and haptic intensity.
type SensorySettings struct {
	AnimationLevel     int  `json:"animation_level"`
	SoundLevel         int  `json:"sound_level"`
	HapticLevel        int  `json:"haptic_level"`
	TransitionWarnings bool `json:"transition_warnings"`
	LiteralLabels      bool `json:"literal_labels"`
}

// VoiceCoachSettings controls which announcement events a client voices.
type VoiceCoachSettings struct {
	Enabled           bool   `json:"enabled"`
	VoiceSelection    string `json:"voice_selection"`
	SpeechRate        string `json:"speech_rate"`
	Volume            int    `json:"volume"`
	MinGapSeconds     int    `json:"min_gap_seconds"`
	ZoneCallouts      bool   `json:"zone_callouts"`
	PointUpdates      string `json:"point_updates"`
	IntervalCountdown bool   `json:"interval_countdown"`
	Encouragement     string `json:"encouragement"`
	PacingWarnings    bool   `json:"pacing_warnings"`
}

// ZoneSettings holds display-side zone boundary preferences.
type ZoneSettings struct {
	Zone1Max    int  `json:"zone_1_max"`
	Zone2Max    int  `json:"zone_2_max"`
	Zone3Max    int  `json:"zone_3_max"`
	Zone4Max    int  `json:"zone_4_max"`
	UseKarvonen bool `json:"use_karvonen"`
}

// Settings is the per-user preferences document.
type Settings struct {
	Sensory        SensorySettings    `json:"sensory"`
	VoiceCoach     VoiceCoachSettings `json:"voice_coach"`
	ZoneSettings   ZoneSettings       `json:"zone_settings"`
	DarkMode       bool               `json:"dark_mode"`
	HighContrast   bool               `json:"high_contrast"`
	ColorblindMode bool               `json:"colorblind_mode"`
	FontSize       string             `json:"font_size"`
}

// DefaultSettings returns the settings used until a user saves their own.
func DefaultSettings() Settings {
	return Settings{
		Sensory: SensorySettings{
			AnimationLevel:     100,
			SoundLevel:         100,
			HapticLevel:        100,
			TransitionWarnings: true,
		},
		VoiceCoach: VoiceCoachSettings{
			Enabled:           true,
			VoiceSelection:    "default",
			SpeechRate:        "normal",
			Volume:            80,
			MinGapSeconds:     15,
			ZoneCallouts:      true,
			PointUpdates:      "every_3",
			IntervalCountdown: true,
			Encouragement:     "occasional",
			PacingWarnings:    true,
		},
		ZoneSettings: ZoneSettings{
			Zone1Max: 60,
			Zone2Max: 70,
			Zone3Max: 84,
			Zone4Max: 92,
		},
		DarkMode: true,
		FontSize: "medium",
	}
}
