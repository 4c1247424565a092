package universe

// DefaultTickers is the curated IDX stock universe, in analysis order.
var DefaultTickers = []string{
	"BBCA.JK", "BMRI.JK", "TLKM.JK", "ASII.JK", "UNVR.JK",
	"GOTO.JK", "ARTO.JK", "MDKA.JK", "ICBP.JK", "BBNI.JK",
	"BRIS.JK", "ANTM.JK", "PGAS.JK", "ADRO.JK", "KLBF.JK",
	"ACES.JK", "INDF.JK", "PTBA.JK", "CPIN.JK", "EXCL.JK",
}

// SyariahByTicker records the syariah compliance of each curated ticker per
// the exchange's syariah securities list.
var SyariahByTicker = map[string]bool{
	"BBCA.JK": false,
	"BMRI.JK": true,
	"TLKM.JK": false,
	"ASII.JK": false,
	"UNVR.JK": true,
	"GOTO.JK": false,
	"ARTO.JK": false,
	"MDKA.JK": true,
	"ICBP.JK": true,
	"BBNI.JK": false,
	"BRIS.JK": true,
	"ANTM.JK": true,
	"PGAS.JK": true,
	"ADRO.JK": true,
	"KLBF.JK": false,
	"ACES.JK": true,
	"INDF.JK": true,
	"PTBA.JK": true,
	"CPIN.JK": true,
	"EXCL.JK": true,
}
