package timezone

// DefaultTable returns the built-in dialing-prefix table. Zones for large
// countries spanning several timezones use the most populous zone; per-prefix
// configuration overrides exist for deployments that need finer grain.
func DefaultTable() []Entry {
	return []Entry{
		// NANP: generic +1 plus the longer island codes that share it.
		{Prefix: "1", Zone: "America/New_York"},
		{Prefix: "1242", Zone: "America/Nassau"},
		{Prefix: "1246", Zone: "America/Barbados"},
		{Prefix: "1268", Zone: "America/Antigua"},
		{Prefix: "1345", Zone: "America/Cayman"},
		{Prefix: "1441", Zone: "Atlantic/Bermuda"},
		{Prefix: "1473", Zone: "America/Grenada"},
		{Prefix: "1649", Zone: "America/Grand_Turk"},
		{Prefix: "1658", Zone: "America/Jamaica"},
		{Prefix: "1664", Zone: "America/Montserrat"},
		{Prefix: "1721", Zone: "America/Lower_Princes"},
		{Prefix: "1758", Zone: "America/St_Lucia"},
		{Prefix: "1767", Zone: "America/Dominica"},
		{Prefix: "1784", Zone: "America/St_Vincent"},
		{Prefix: "1787", Zone: "America/Puerto_Rico"},
		{Prefix: "1809", Zone: "America/Santo_Domingo"},
		{Prefix: "1829", Zone: "America/Santo_Domingo"},
		{Prefix: "1849", Zone: "America/Santo_Domingo"},
		{Prefix: "1868", Zone: "America/Port_of_Spain"},
		{Prefix: "1869", Zone: "America/St_Kitts"},
		{Prefix: "1876", Zone: "America/Jamaica"},

		{Prefix: "7", Zone: "Europe/Moscow"},
		{Prefix: "20", Zone: "Africa/Cairo"},
		{Prefix: "27", Zone: "Africa/Johannesburg"},
		{Prefix: "30", Zone: "Europe/Athens"},
		{Prefix: "31", Zone: "Europe/Amsterdam"},
		{Prefix: "32", Zone: "Europe/Brussels"},
		{Prefix: "33", Zone: "Europe/Paris"},
		{Prefix: "34", Zone: "Europe/Madrid"},
		{Prefix: "36", Zone: "Europe/Budapest"},
		{Prefix: "39", Zone: "Europe/Rome"},
		{Prefix: "40", Zone: "Europe/Bucharest"},
		{Prefix: "41", Zone: "Europe/Zurich"},
		{Prefix: "43", Zone: "Europe/Vienna"},
		{Prefix: "44", Zone: "Europe/London"},
		{Prefix: "45", Zone: "Europe/Copenhagen"},
		{Prefix: "46", Zone: "Europe/Stockholm"},
		{Prefix: "47", Zone: "Europe/Oslo"},
		{Prefix: "48", Zone: "Europe/Warsaw"},
		{Prefix: "49", Zone: "Europe/Berlin"},
		{Prefix: "51", Zone: "America/Lima"},
		{Prefix: "52", Zone: "America/Mexico_City"},
		{Prefix: "54", Zone: "America/Argentina/Buenos_Aires"},
		{Prefix: "55", Zone: "America/Sao_Paulo"},
		{Prefix: "56", Zone: "America/Santiago"},
		{Prefix: "57", Zone: "America/Bogota"},
		{Prefix: "58", Zone: "America/Caracas"},
		{Prefix: "60", Zone: "Asia/Kuala_Lumpur"},
		{Prefix: "61", Zone: "Australia/Sydney"},
		{Prefix: "62", Zone: "Asia/Jakarta"},
		{Prefix: "63", Zone: "Asia/Manila"},
		{Prefix: "64", Zone: "Pacific/Auckland"},
		{Prefix: "65", Zone: "Asia/Singapore"},
		{Prefix: "66", Zone: "Asia/Bangkok"},
		{Prefix: "81", Zone: "Asia/Tokyo"},
		{Prefix: "82", Zone: "Asia/Seoul"},
		{Prefix: "84", Zone: "Asia/Ho_Chi_Minh"},
		{Prefix: "86", Zone: "Asia/Shanghai"},
		{Prefix: "90", Zone: "Europe/Istanbul"},
		{Prefix: "91", Zone: "Asia/Kolkata"},
		{Prefix: "92", Zone: "Asia/Karachi"},
		{Prefix: "93", Zone: "Asia/Kabul"},
		{Prefix: "94", Zone: "Asia/Colombo"},
		{Prefix: "95", Zone: "Asia/Yangon"},
		{Prefix: "98", Zone: "Asia/Tehran"},
		{Prefix: "212", Zone: "Africa/Casablanca"},
		{Prefix: "213", Zone: "Africa/Algiers"},
		{Prefix: "216", Zone: "Africa/Tunis"},
		{Prefix: "218", Zone: "Africa/Tripoli"},
		{Prefix: "220", Zone: "Africa/Banjul"},
		{Prefix: "221", Zone: "Africa/Dakar"},
		{Prefix: "233", Zone: "Africa/Accra"},
		{Prefix: "234", Zone: "Africa/Lagos"},
		{Prefix: "251", Zone: "Africa/Addis_Ababa"},
		{Prefix: "254", Zone: "Africa/Nairobi"},
		{Prefix: "255", Zone: "Africa/Dar_es_Salaam"},
		{Prefix: "256", Zone: "Africa/Kampala"},
		{Prefix: "260", Zone: "Africa/Lusaka"},
		{Prefix: "263", Zone: "Africa/Harare"},
		{Prefix: "351", Zone: "Europe/Lisbon"},
		{Prefix: "352", Zone: "Europe/Luxembourg"},
		{Prefix: "353", Zone: "Europe/Dublin"},
		{Prefix: "354", Zone: "Atlantic/Reykjavik"},
		{Prefix: "358", Zone: "Europe/Helsinki"},
		{Prefix: "359", Zone: "Europe/Sofia"},
		{Prefix: "370", Zone: "Europe/Vilnius"},
		{Prefix: "371", Zone: "Europe/Riga"},
		{Prefix: "372", Zone: "Europe/Tallinn"},
		{Prefix: "380", Zone: "Europe/Kyiv"},
		{Prefix: "385", Zone: "Europe/Zagreb"},
		{Prefix: "386", Zone: "Europe/Ljubljana"},
		{Prefix: "420", Zone: "Europe/Prague"},
		{Prefix: "421", Zone: "Europe/Bratislava"},
		{Prefix: "852", Zone: "Asia/Hong_Kong"},
		{Prefix: "853", Zone: "Asia/Macau"},
		{Prefix: "880", Zone: "Asia/Dhaka"},
		{Prefix: "886", Zone: "Asia/Taipei"},
		{Prefix: "961", Zone: "Asia/Beirut"},
		{Prefix: "962", Zone: "Asia/Amman"},
		{Prefix: "963", Zone: "Asia/Damascus"},
		{Prefix: "964", Zone: "Asia/Baghdad"},
		{Prefix: "965", Zone: "Asia/Kuwait"},
		{Prefix: "966", Zone: "Asia/Riyadh"},
		{Prefix: "971", Zone: "Asia/Dubai"},
		{Prefix: "972", Zone: "Asia/Jerusalem"},
		{Prefix: "974", Zone: "Asia/Qatar"},
		{Prefix: "977", Zone: "Asia/Kathmandu"},
		{Prefix: "994", Zone: "Asia/Baku"},
		{Prefix: "995", Zone: "Asia/Tbilisi"},
		{Prefix: "998", Zone: "Asia/Tashkent"},
	}
}
