package catalog

var (
	allFormats     = []Format{FormatA4, FormatA5}
	allWeights     = []PaperWeight{Weight80, Weight120}
	allPrintModes  = []string{PrintSingle, PrintDouble}
	allCoverColors = []string{"black", "blue", "red", "white", "green", "grey", "burgundy"}
	cardColors     = []string{"white", "grey", "green", "blue", "red", "burgundy"}
)

func pageTable(single80, double80, single120, double120 int) PageTable {
	return PageTable{
		Weight80:  {PrintSingle: single80, PrintDouble: double80},
		Weight120: {PrintSingle: single120, PrintDouble: double120},
	}
}

// Default returns the shop's catalog. Each call builds a fresh value.
func Default() *Catalog {
	return New(Entries{
		Bindings: []Binding{
			{
				ID:          HardcoverID,
				Name:        "Hardcover",
				Description: "Premium hardcover with embossing, shipping included",
				Price:       25.00,
				Image:       "https://i.postimg.cc/q7QsYQrP/Apr-5-2025-08-41-31-PM.png",
				Constraints: Constraints{
					Formats:           allFormats,
					PaperWeights:      allWeights,
					PrintModes:        allPrintModes,
					PageLimits:        pageTable(400, 800, 450, 900),
					SupportsCorners:   true,
					SupportsSpineText: true,
					CoverColors:       []string{"black", "blue", "red"},
					EmbossingColors:   []string{"gold", "silver", "white", "copper", "black"},
				},
			},
			{
				ID:          "softcover-klassisch",
				Name:        "Softcover Klassisch",
				Description: "Transparent foil front, colored cardboard back",
				Price:       12.90,
				Constraints: Constraints{
					Formats:       allFormats,
					PaperWeights:  allWeights,
					PrintModes:    allPrintModes,
					PageLimits:    pageTable(400, 800, 350, 700),
					SupportsXXL:   true,
					XXLThresholds: pageTable(190, 380, 150, 300),
					CoverColors:   allCoverColors,
				},
			},
			{
				ID:          "softcover-karton",
				Name:        "Softcover Karton",
				Description: "Printed cardboard cover",
				Price:       14.90,
				Constraints: Constraints{
					Formats:      allFormats,
					PaperWeights: allWeights,
					PrintModes:   allPrintModes,
					PageLimits:   pageTable(190, 380, 150, 300),
					CoverColors:  cardColors,
				},
			},
			{
				ID:          "softcover-prägung",
				Name:        "Softcover mit Prägung",
				Description: "Embossed synthetic leather cover",
				Price:       16.90,
				Constraints: Constraints{
					Formats:      allFormats,
					PaperWeights: allWeights,
					PrintModes:   allPrintModes,
					PageLimits:   pageTable(190, 380, 150, 300),
					CoverColors:  cardColors,
				},
			},
			{
				ID:          "spiralbindung-metall",
				Name:        "Metall Spiralbindung",
				Description: "Metal spiral, transparent front, cardboard back",
				Price:       9.90,
				Constraints: Constraints{
					Formats:      allFormats,
					PaperWeights: allWeights,
					PrintModes:   allPrintModes,
					PageLimits:   pageTable(190, 380, 150, 300),
					CoverColors:  allCoverColors,
				},
			},
			{
				ID:          "spiralbindung-plastik",
				Name:        "Plastik Spiralbindung",
				Description: "Plastic spiral, transparent front, cardboard back",
				Price:       7.90,
				Constraints: Constraints{
					Formats:       allFormats,
					PaperWeights:  allWeights,
					PrintModes:    allPrintModes,
					PageLimits:    pageTable(400, 800, 350, 700),
					SupportsXXL:   true,
					XXLThresholds: pageTable(190, 380, 150, 300),
					CoverColors:   allCoverColors,
				},
			},
			{
				ID:          "individualdruck",
				Name:        "Individueller Druck",
				Description: "Customer-designed cover printed on demand",
				Price:       14.90,
				Image:       "https://i.postimg.cc/TPnfVhjN/Chat-GPT-Image-Apr-4-2025-12-30-24-AM.png",
				Constraints: Constraints{
					Formats:      allFormats,
					PaperWeights: allWeights,
					PrintModes:   allPrintModes,
					PageLimits:   pageTable(400, 800, 450, 900),
				},
			},
		},
		Papers: []Paper{
			{
				ID:           "standard",
				Name:         "80g/m² Standardpapier",
				Description:  "Light paper for long documents",
				Weight:       Weight80,
				PricePerPage: 0.20,
				MaxPages:     400,
			},
			{
				ID:           "premium",
				Name:         "120g/m² Premiumpapier",
				Description:  "Heavy paper for a premium finish",
				Weight:       Weight120,
				PricePerPage: 0.30,
				MaxPages:     450,
			},
		},
		PrintModes: []PrintMode{
			{ID: PrintSingle, Name: "Einseitig", Description: "Printed on one side of each sheet"},
			{ID: PrintDouble, Name: "Doppelseitig", Description: "Printed on both sides of each sheet"},
		},
		Covers: []Cover{
			{
				ID:          "uni-heidelberg",
				Title:       "Universität Heidelberg",
				Description: "Logo der Universität Heidelberg",
				Logo:        "https://i.postimg.cc/x8dHzG22/Ruprecht-Karls-Universita-t-Heidelberg-Logo.png",
			},
			{
				ID:          "dhbw",
				Title:       "DHBW",
				Description: "Logo der Dualen Hochschule Baden-Württemberg",
				Logo:        "https://i.postimg.cc/jS8jWVjL/download.png",
			},
			{
				ID:          "ph-heidelberg",
				Title:       "PH Heidelberg",
				Description: "Logo der Pädagogischen Hochschule Heidelberg",
				Logo:        "https://i.postimg.cc/SRs4bRWd/download-1.png",
			},
			{
				ID:          "hs-mannheim",
				Title:       "Hochschule Mannheim",
				Description: "Logo der Hochschule Mannheim",
				Logo:        "https://i.postimg.cc/VvBCp7Wn/download-2.png",
			},
			{
				ID:           "custom-logo",
				Title:        "Eigenes Logo",
				Description:  "Upload your own logo for the cover",
				RequiresLogo: true,
			},
		},
		Shipping: []Shipping{
			{ID: "pickup", Name: "Selbstabholung", Description: "Pickup at our Heidelberg store", Price: 0, DeliveryTime: "Gleicher Tag möglich"},
			{ID: "standard", Name: "Standardversand", Description: "DHL within Germany", Price: 4.90, DeliveryTime: "1-3 Werktage"},
			{ID: "express", Name: "Express-Versand", Description: "For urgent deadlines", Price: 12.90, DeliveryTime: "Nächster Werktag"},
			{ID: "international", Name: "Internationaler Versand", Description: "Worldwide shipping", Price: 19.90, DeliveryTime: "3-7 Werktage"},
		},
		CoverColors: []Color{
			{ID: "black", Name: "Schwarz", Hex: "#000000"},
			{ID: "blue", Name: "Blau", Hex: "#1e3a8a"},
			{ID: "red", Name: "Rot", Hex: "#991b1b"},
			{ID: "white", Name: "Weiß", Hex: "#ffffff"},
			{ID: "green", Name: "Grün", Hex: "#166534"},
			{ID: "grey", Name: "Grau", Hex: "#6b7280"},
			{ID: "burgundy", Name: "Bordeaux", Hex: "#7f1d1d"},
		},
		EmbossingColors: []Color{
			{ID: "gold", Name: "Gold", Hex: "#eab308"},
			{ID: "silver", Name: "Silber", Hex: "#94a3b8"},
			{ID: "white", Name: "Weiß", Hex: "#ffffff"},
			{ID: "copper", Name: "Kupfer", Hex: "#bf8970"},
			{ID: "black", Name: "Schwarz", Hex: "#000000"},
		},
	})
}
