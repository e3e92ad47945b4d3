package catalog

// Prices are in rubles.
var builtinEntries = []Entry{
	{Name: "Aspirin", Category: "Antiplatelet", CommonDosage: "100 mg", PricePerPack: 120},
	{Name: "Clopidogrel", Category: "Antiplatelet", CommonDosage: "75 mg", PricePerPack: 450},
	{Name: "Atorvastatin", Category: "Statin", CommonDosage: "20 mg", PricePerPack: 350},
	{Name: "Rosuvastatin", Category: "Statin", CommonDosage: "10 mg", PricePerPack: 380},
	{Name: "Simvastatin", Category: "Statin", CommonDosage: "20 mg", PricePerPack: 280},
	{Name: "Lisinopril", Category: "ACE inhibitor", CommonDosage: "10 mg", PricePerPack: 180},
	{Name: "Enalapril", Category: "ACE inhibitor", CommonDosage: "10 mg", PricePerPack: 150},
	{Name: "Perindopril", Category: "ACE inhibitor", CommonDosage: "5 mg", PricePerPack: 320},
	{Name: "Metformin", Category: "Hypoglycemic", CommonDosage: "500 mg", PricePerPack: 220},
	{Name: "Glibenclamide", Category: "Hypoglycemic", CommonDosage: "5 mg", PricePerPack: 180},
	{Name: "Gliclazide", Category: "Hypoglycemic", CommonDosage: "30 mg", PricePerPack: 240},
	{Name: "Amlodipine", Category: "Calcium channel blocker", CommonDosage: "5 mg", PricePerPack: 160},
	{Name: "Nifedipine", Category: "Calcium channel blocker", CommonDosage: "10 mg", PricePerPack: 170},
	{Name: "Metoprolol", Category: "Beta blocker", CommonDosage: "50 mg", PricePerPack: 140},
	{Name: "Bisoprolol", Category: "Beta blocker", CommonDosage: "5 mg", PricePerPack: 160},
	{Name: "Carvedilol", Category: "Beta blocker", CommonDosage: "12.5 mg", PricePerPack: 200},
	{Name: "Omeprazole", Category: "Proton pump inhibitor", CommonDosage: "20 mg", PricePerPack: 190},
	{Name: "Pantoprazole", Category: "Proton pump inhibitor", CommonDosage: "20 mg", PricePerPack: 210},
	{Name: "Warfarin", Category: "Anticoagulant", CommonDosage: "5 mg", PricePerPack: 280},
	{Name: "Dabigatran", Category: "Anticoagulant", CommonDosage: "110 mg", PricePerPack: 1200},
	{Name: "Losartan", Category: "Angiotensin receptor blocker", CommonDosage: "50 mg", PricePerPack: 220},
	{Name: "Valsartan", Category: "Angiotensin receptor blocker", CommonDosage: "80 mg", PricePerPack: 340},
	{Name: "Furosemide", Category: "Diuretic", CommonDosage: "40 mg", PricePerPack: 90},
	{Name: "Hydrochlorothiazide", Category: "Diuretic", CommonDosage: "25 mg", PricePerPack: 110},
	{Name: "Indapamide", Category: "Diuretic", CommonDosage: "2.5 mg", PricePerPack: 130},
	{Name: "Levothyroxine", Category: "Thyroid hormone", CommonDosage: "100 mcg", PricePerPack: 180},
	{Name: "Prednisolone", Category: "Glucocorticoid", CommonDosage: "5 mg", PricePerPack: 160},
	{Name: "Amoxicillin", Category: "Antibiotic", CommonDosage: "500 mg", PricePerPack: 250},
}

// Illustrative only, not a clinical reference.
var builtinRules = []InteractionRule{
	{
		DrugA:       "Aspirin",
		DrugB:       "Warfarin",
		Severity:    SeverityHigh,
		Description: "Increased risk of bleeding when taken together",
	},
	{
		DrugA:       "Metoprolol",
		DrugB:       "Amlodipine",
		Severity:    SeverityMedium,
		Description: "Possible excessive hypotension, blood pressure monitoring required",
	},
	{
		DrugA:       "Omeprazole",
		DrugB:       "Warfarin",
		Severity:    SeverityMedium,
		Description: "Omeprazole may potentiate the effect of warfarin",
	},
	{
		DrugA:       "Lisinopril",
		DrugB:       "Amlodipine",
		Severity:    SeverityLow,
		Description: "Common combination, blood pressure monitoring advised",
	},
}

var builtinPromos = []PromoCode{
	{Code: "HEALTH10", DiscountPercent: 10, Description: "10% off"},
	{Code: "FIRST20", DiscountPercent: 20, Description: "20% off your first order"},
	{Code: "SAVE15", DiscountPercent: 15, Description: "15% off"},
}

// Default returns the built-in catalog
func Default() *Catalog {
	return MustNew(builtinEntries, builtinRules, builtinPromos)
}
