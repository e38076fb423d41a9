package normalize_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dwarvesf/wallet-tracker/internal/alchemyrpc"
	"github.com/dwarvesf/wallet-tracker/internal/model"
	"github.com/dwarvesf/wallet-tracker/internal/normalize"
	"github.com/dwarvesf/wallet-tracker/internal/registry"
)

var _ = Describe("Normalize", func() {
	const (
		wallet       = "0x28C6c06298d514Db089934071355E5743bf21d60"
		usdcContract = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	)

	var (
		chain  model.Chain
		filter registry.TokenFilter
		raw    alchemyrpc.RawTransfer
	)

	BeforeEach(func() {
		chain = model.Chain{
			ID:   "ethereum",
			Name: "Ethereum",
			Tokens: map[string]string{
				"USDC": usdcContract,
			},
			MaxPageSize: 1000,
		}
		filter = registry.NewTokenFilter(map[string]float64{"USDC": 10})
		raw = alchemyrpc.RawTransfer{
			UniqueID: "0xabc:log:12",
			Hash:     "0xabc",
			From:     "0x1111111111111111111111111111111111111111",
			To:       "0x28c6c06298d514db089934071355e5743bf21d60",
			Value:    floatPtr(250.5),
			Asset:    "USDC",
			Category: "erc20",
			BlockNum: "0x10",
			RawContract: alchemyrpc.RawContract{
				Value:   "0xeee53a0",
				Address: usdcContract,
				Decimal: "0x6",
			},
			Metadata: &alchemyrpc.TransferMetadata{
				BlockTimestamp: "2023-05-17T10:30:00.000Z",
			},
		}
	})

	It("maps a raw transfer into a transaction", func() {
		tx, err := normalize.Normalize(raw, wallet, chain, filter)
		Expect(err).ToNot(HaveOccurred())
		Expect(tx).ToNot(BeNil())
		Expect(tx.Hash).To(Equal("0xabc"))
		Expect(tx.Wallet).To(Equal(wallet))
		Expect(tx.ChainID).To(Equal("ethereum"))
		Expect(tx.ChainName).To(Equal("Ethereum"))
		Expect(tx.BlockNumber).To(Equal(uint64(16)))
		Expect(tx.TokenSymbol).To(Equal("USDC"))
		Expect(tx.Amount).To(Equal(250.5))
		Expect(tx.Counterparty).To(Equal("0x1111111111111111111111111111111111111111"))
		Expect(tx.Type).To(Equal(model.In))
		Expect(tx.Year).To(Equal(2023))
		Expect(tx.Timestamp.Location()).To(Equal(time.UTC))
	})

	It("resolves the symbol from the contract address over the asset label", func() {
		raw.Asset = "USD Coin"
		raw.RawContract.Address = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

		tx, err := normalize.Normalize(raw, wallet, chain, filter)
		Expect(err).ToNot(HaveOccurred())
		Expect(tx).ToNot(BeNil())
		Expect(tx.TokenSymbol).To(Equal("USDC"))
	})

	Context("when the transfer is filtered out", func() {
		It("skips transfers received by another wallet", func() {
			raw.To = "0x2222222222222222222222222222222222222222"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx).To(BeNil())
		})

		It("skips symbols outside the chain's token set", func() {
			raw.Asset = "SHIB"
			raw.RawContract.Address = "0x3333333333333333333333333333333333333333"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx).To(BeNil())
		})

		It("skips amounts below the token minimum", func() {
			raw.Value = floatPtr(5)

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx).To(BeNil())
		})
	})

	Context("when required fields are missing", func() {
		It("drops records with no hash", func() {
			raw.Hash = ""

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).To(MatchError(normalize.ErrMalformedRecord))
			Expect(tx).To(BeNil())
		})

		It("drops records whose amount cannot be recovered", func() {
			raw.Value = nil
			raw.RawContract.Value = "not-hex"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).To(MatchError(normalize.ErrMalformedRecord))
			Expect(err.Error()).To(ContainSubstring("missing amount"))
			Expect(tx).To(BeNil())
		})

		It("drops records with no timestamp", func() {
			raw.Metadata = nil

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).To(MatchError(normalize.ErrMalformedRecord))
			Expect(err.Error()).To(ContainSubstring("missing timestamp"))
			Expect(tx).To(BeNil())
		})

		It("drops records with an unparsable timestamp", func() {
			raw.Metadata.BlockTimestamp = "May 17th 2023"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).To(MatchError(normalize.ErrMalformedRecord))
			Expect(tx).To(BeNil())
		})
	})

	Context("when the decimal-adjusted value is null", func() {
		It("recovers the amount from the raw contract fields", func() {
			raw.Value = nil
			raw.RawContract.Value = "0x5f5e100"
			raw.RawContract.Decimal = "0x6"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx).ToNot(BeNil())
			Expect(tx.Amount).To(Equal(100.0))
		})
	})

	Context("year bucketing", func() {
		It("assigns the year in UTC regardless of local timezone", func() {
			raw.Metadata.BlockTimestamp = "2022-12-31T23:59:59Z"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx.Year).To(Equal(2022))
		})

		It("rolls into the next year at midnight UTC", func() {
			raw.Metadata.BlockTimestamp = "2023-01-01T00:00:00.000Z"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx.Year).To(Equal(2023))
		})
	})

	Context("when the chain has no token list", func() {
		It("accepts every symbol", func() {
			chain.Tokens = nil
			filter = registry.NewTokenFilter(nil)
			raw.Asset = "WETH"
			raw.RawContract.Address = "0x4444444444444444444444444444444444444444"

			tx, err := normalize.Normalize(raw, wallet, chain, filter)
			Expect(err).ToNot(HaveOccurred())
			Expect(tx).ToNot(BeNil())
			Expect(tx.TokenSymbol).To(Equal("WETH"))
		})
	})
})

func floatPtr(v float64) *float64 {
	return &v
}
