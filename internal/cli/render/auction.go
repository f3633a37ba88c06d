package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/rarity-society/internal/domain"
	"github.com/trebuchet-org/rarity-society/internal/usecase"
)

// AuctionRenderer renders the auction house
type AuctionRenderer struct {
	out   io.Writer
	names NameFunc
}

// NewAuctionRenderer creates a new auction renderer
func NewAuctionRenderer(out io.Writer, names NameFunc) *AuctionRenderer {
	return &AuctionRenderer{out: out, names: names}
}

// Render renders the current round and the house settings
func (r *AuctionRenderer) Render(v *usecase.AuctionView) error {
	a := v.Auction
	header := sectionHeaderStyle.Sprint("Auction house")
	if v.Paused {
		header += " " + pendingStyle.Sprint("[paused]")
	}
	fmt.Fprintln(r.out, header)

	if v.Phase == usecase.AuctionNotStarted {
		fmt.Fprintln(r.out, "  No auction has started yet")
	} else {
		rows := [][2]string{
			{"Token", fmt.Sprintf("#%d", a.TokenID)},
			{"Phase", phaseLabel(v)},
			{"Highest bid", amountStyle.Sprint(domain.FormatAmount(a.Amount))},
			{"Bidder", named(a.Bidder, v.BidderName)},
			{"Ends", formatTimestamp(a.EndTime)},
		}
		if v.Phase == usecase.AuctionLive {
			rows = append(rows, [2]string{"Minimum next bid", amountStyle.Sprint(domain.FormatAmount(v.MinNextBid))})
		}
		keyValues(r.out, rows)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Settings"))
	keyValues(r.out, [][2]string{
		{"Owner", named(v.Owner, v.OwnerName)},
		{"Reserve", named(v.Reserve, r.names(v.Reserve))},
		{"Reserve price", domain.FormatAmount(v.Params.ReservePrice)},
		{"Duration", formatDuration(v.Params.Duration)},
		{"Time buffer", formatDuration(v.Params.TimeBuffer)},
		{"Treasury split", fmt.Sprintf("%d%%", v.Params.TreasurySplit)},
	})
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, timestampStyle.Sprintf("block %d, %s", v.Block, formatTimestamp(v.Now)))
	return nil
}

func phaseLabel(v *usecase.AuctionView) string {
	switch v.Phase {
	case usecase.AuctionLive:
		return successStyle.Sprintf("live, %s left", formatDuration(v.Remaining))
	case usecase.AuctionEnded:
		return pendingStyle.Sprint("ended, waiting for settlement")
	}
	return labelStyle.Sprint(Title(string(v.Phase)))
}

// RenderBid renders a placed bid
func (r *AuctionRenderer) RenderBid(result *usecase.PlaceBidResult) error {
	renderTx(r.out, result.Tx, r.names)
	a := result.Auction
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Bid %s on token #%d, round ends %s",
		domain.FormatAmount(a.Auction.Amount), a.Auction.TokenID, formatTimestamp(a.Auction.EndTime))))
	return nil
}

// RenderManage renders an owner or keeper action followed by the house
func (r *AuctionRenderer) RenderManage(result *usecase.ManageAuctionResult) error {
	renderTx(r.out, result.Tx, r.names)
	fmt.Fprintln(r.out, FormatSuccess(Title(string(result.Operation))+" done"))
	fmt.Fprintln(r.out)
	return r.Render(result.Auction)
}

var _ Renderer[*usecase.AuctionView] = (*AuctionRenderer)(nil)
