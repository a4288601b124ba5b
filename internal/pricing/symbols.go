package pricing

// Static map of BSC token symbols to CoinGecko ids. Symbols outside this
// table are dropped from provider fetches.
var providerIDs = map[string]string{
	"BNB":   "binancecoin",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"BUSD":  "binance-usd",
	"ETH":   "ethereum",
	"BTCB":  "bitcoin",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"CAKE":  "pancakeswap-token",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"MATIC": "matic-network",
	"AVAX":  "avalanche-2",
	"SOL":   "solana",
	"DOGE":  "dogecoin",
	"SHIB":  "shiba-inu",
	"TRX":   "tron",
	"LTC":   "litecoin",
	"BCH":   "bitcoin-cash",
	"ETC":   "ethereum-classic",
}

func ProviderID(symbol string) (string, bool) {
	id, ok := providerIDs[Normalize(symbol)]
	return id, ok
}
