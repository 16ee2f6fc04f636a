package ledger

// currencyNames maps ISO 4217 currency codes to display names. This is
// static data consulted when a currency commodity is first created; codes
// missing from the table are still accepted, with a blank name.
var currencyNames = map[string]string{
	"AED": "United Arab Emirates dirham",
	"ARS": "Argentine peso",
	"AUD": "Australian dollar",
	"BDT": "Bangladeshi taka",
	"BGN": "Bulgarian lev",
	"BHD": "Bahraini dinar",
	"BRL": "Brazilian real",
	"CAD": "Canadian dollar",
	"CHF": "Swiss franc",
	"CLP": "Chilean peso",
	"CNY": "Chinese yuan",
	"COP": "Colombian peso",
	"CZK": "Czech koruna",
	"DKK": "Danish krone",
	"EGP": "Egyptian pound",
	"EUR": "Euro",
	"GBP": "Pound sterling",
	"HKD": "Hong Kong dollar",
	"HUF": "Hungarian forint",
	"IDR": "Indonesian rupiah",
	"ILS": "Israeli new shekel",
	"INR": "Indian rupee",
	"ISK": "Icelandic krona",
	"JPY": "Japanese yen",
	"KES": "Kenyan shilling",
	"KRW": "South Korean won",
	"KWD": "Kuwaiti dinar",
	"LKR": "Sri Lankan rupee",
	"MAD": "Moroccan dirham",
	"MXN": "Mexican peso",
	"MYR": "Malaysian ringgit",
	"NGN": "Nigerian naira",
	"NOK": "Norwegian krone",
	"NPR": "Nepalese rupee",
	"NZD": "New Zealand dollar",
	"OMR": "Omani rial",
	"PEN": "Peruvian sol",
	"PHP": "Philippine peso",
	"PKR": "Pakistani rupee",
	"PLN": "Polish zloty",
	"QAR": "Qatari riyal",
	"RON": "Romanian leu",
	"RUB": "Russian ruble",
	"SAR": "Saudi riyal",
	"SEK": "Swedish krona",
	"SGD": "Singapore dollar",
	"THB": "Thai baht",
	"TRY": "Turkish lira",
	"TWD": "New Taiwan dollar",
	"UAH": "Ukrainian hryvnia",
	"USD": "United States dollar",
	"VND": "Vietnamese dong",
	"ZAR": "South African rand",
}

// CurrencyName returns the display name for an ISO currency code, or an
// empty string when the code is not in the table.
func CurrencyName(code string) string {
	return currencyNames[code]
}
