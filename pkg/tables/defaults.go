package tables

// Shipped defaults for the data tables, collected from the document base
// the parser was calibrated on. Deployments override them via CSV.

// DefaultClientAliases returns the built-in alias table.
func DefaultClientAliases() []ClientAlias {
	return []ClientAlias{
		{Alias: "IL GUSTO FRUTTA E VERDURA DI SQUILLACIOTI FRANCESCA", Canonical: "Il Gusto", Code: "701134"},
		{Alias: "IL GUSTO FRUTTA E VERDURA", Canonical: "Il Gusto", Code: "701134"},
		{Alias: "IL GUSTO FRUTTA & VERDURA", Canonical: "Il Gusto", Code: "701134"},
		{Alias: "IL GUSTO", Canonical: "Il Gusto", Code: "701134"},

		{Alias: "PIEMONTE CARNI", Canonical: "Piemonte Carni", Code: "701029"},
		{Alias: "PIEMONTE CARNI DI CALDERA MASSIMO & C. S.A.S.", Canonical: "Piemonte Carni", Code: "701029"},
		{Alias: "PIEMONTE CARNI S.A.S.", Canonical: "Piemonte Carni", Code: "701029"},

		{Alias: "AZ. AGR. LA MANDRIA S.S.", Canonical: "La Mandria", Code: "701168"},
		{Alias: "AZ. AGR. LA MANDRIA S.S. DI GOIA E BRUNO", Canonical: "La Mandria", Code: "701168"},
		{Alias: "AZIENDA AGRICOLA LA MANDRIA", Canonical: "La Mandria", Code: "701168"},
		{Alias: "LA MANDRIA S.S.", Canonical: "La Mandria", Code: "701168"},

		{Alias: "BARISONE E BALDON SRL", Canonical: "Barisone E Baldon"},
		{Alias: "BARISONE E BALDON S.R.L.", Canonical: "Barisone E Baldon"},
		{Alias: "BARISONE & BALDON S.R.L.", Canonical: "Barisone E Baldon"},
		{Alias: "BARISONE & BALDON", Canonical: "Barisone E Baldon"},

		{Alias: "MAROTTA S.R.L.", Canonical: "Marotta"},
		{Alias: "MAROTTA SRL", Canonical: "Marotta"},
		{Alias: "BOREALE S.R.L.", Canonical: "Boreale"},
		{Alias: "BOREALE SRL", Canonical: "Boreale"},
		{Alias: "DONAC S.R.L.", Canonical: "Donac", Code: "20322"},
		{Alias: "DONAC SRL", Canonical: "Donac", Code: "20322"},
		{Alias: "TONAC", Canonical: "Donac", Code: "20322"},
		{Alias: "ESSEMME", Canonical: "Esse Emme"},
		{Alias: "ESSE EMME", Canonical: "Esse Emme"},
		{Alias: "ARDITI F.LLI S.R.L.", Canonical: "Arditi F.lli", Code: "701207"},
		{Alias: "ARUDI MIRELLA", Canonical: "Arudi Mirella", Code: "701179"},
		{Alias: "MOLINETTO SALUMI E FORMAGGI S.R.L.", Canonical: "Molinetto Salumi", Code: "701184"},
		{Alias: "PANETTERIA PISTONE RENZO", Canonical: "Panetteria Pistone", Code: "701209"},
		{Alias: "AZ.AGR.ISABELLA DI CONTI STEFANO", Canonical: "Azienda Isabella", Code: "701205"},
		{Alias: "BOTTEGA DELLA CARNE DI AVIDANO SILVANA", Canonical: "Bottega Della Carne", Code: "701213"},
	}
}

// DefaultSenderDenylist returns the built-in sender/carrier denylist.
// The sender prints its own address in the left column of every document;
// these fragments must never surface as a delivery address.
func DefaultSenderDenylist() []SenderDenyEntry {
	return []SenderDenyEntry{
		{Keyword: "MARCONI"},
		{Keyword: "MAGLIANO ALFIERI"},
		{Keyword: "MAGLIANO"},
		{Keyword: "C.SO G. MARCONI"},
		{Keyword: "CORSO MARCONI"},
		{Keyword: "G. MARCONI"},
		{PostalCode: "12050"},
		// Carriers occasionally printed in the delivery block.
		{Keyword: "SAFIM"},
		{Keyword: "S.A.F.I.M"},
		{Keyword: "SUPEJA"},
		{Keyword: "GALLINO"},
	}
}

// DefaultArticleCodes returns the built-in article-code whitelist.
func DefaultArticleCodes() []ArticleCode {
	codes := []string{
		"060041", "070017", "070056", "070057", "200000", "200016",
		"200523", "200527", "200553", "200575", "200576", "DL000301",
		"PS000034", "PS000077", "PS000386", "VS000012", "VS000169",
		"VS000198", "VS000425", "VS000881", "VS000891", "PIRR002",
		"PIRR003", "PIRR004",
	}
	out := make([]ArticleCode, len(codes))
	for i, c := range codes {
		out[i] = ArticleCode{Code: c}
	}
	return out
}
