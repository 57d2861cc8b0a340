package poker

import (
	"fmt"
	"strings"
)

// Card is the evaluator's internal bitfield form:
// xxxbbbbb bbbbbbbb cdhsrrrr xxpppppp
// b = rank bit, cdhs = suit, r = rank (0..12), p = prime for the rank.
type Card int32

// CardID is the dense 0..51 identity used for storage and addressing:
// id = rank*4 + suit with ranks 2..A and suits in c,d,h,s order.
type CardID = uint8

const (
	// NumCards is the deck size.
	NumCards = 52
	// NoCard is the wire sentinel for an empty fixed-width card slot.
	NoCard CardID = 0xFF
)

var (
	intRanks [13]int32
	strRanks = "23456789TJQKA"
	primes   = []int32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}
)

var (
	charRankToIntRank = map[uint8]int32{}
	charSuitToIntSuit = map[uint8]int32{
		's': 1, // spades
		'h': 2, // hearts
		'd': 4, // diamonds
		'c': 8, // clubs
	}
	intSuitToCharSuit = "xshxdxxxc"
	// suit bit (s=1,h=2,d=4,c=8) to dense suit index (c=0,d=1,h=2,s=3)
	suitBitToDense = map[int32]int32{8: 0, 4: 1, 2: 2, 1: 3}
	denseSuitChars = "cdhs"
)

func init() {
	for i := 0; i < 13; i++ {
		intRanks[i] = int32(i)
	}

	for i := range strRanks {
		charRankToIntRank[strRanks[i]] = intRanks[i]
	}
}

func NewCard(s string) Card {
	rankInt := charRankToIntRank[s[0]]
	suitInt := charSuitToIntSuit[s[1]]
	return makeCard(rankInt, suitInt)
}

// NewCardFromID builds the evaluator form from the dense identity.
// The identity must be < NumCards.
func NewCardFromID(id CardID) Card {
	rankInt := int32(id >> 2)
	suitInt := charSuitToIntSuit[denseSuitChars[id&3]]
	return makeCard(rankInt, suitInt)
}

func makeCard(rankInt int32, suitInt int32) Card {
	rankPrime := primes[rankInt]

	bitRank := int32(1) << uint32(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank | rankPrime)
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	*c = NewCard(string(b[1:3]))
	return nil
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

func (c Card) Rank() int32 {
	return (int32(c) >> 8) & 0xF
}

func (c Card) Suit() int32 {
	return (int32(c) >> 12) & 0xF
}

func (c Card) BitRank() int32 {
	return (int32(c) >> 16) & 0x1FFF
}

func (c Card) Prime() int32 {
	return int32(c) & 0x3F
}

// ID returns the dense 0..51 identity of the card.
func (c Card) ID() CardID {
	return CardID(c.Rank()*4 + suitBitToDense[c.Suit()])
}

// IDString renders a dense identity as e.g. "As" or "2c".
func IDString(id CardID) string {
	if id >= NumCards {
		return fmt.Sprintf("??(%d)", id)
	}
	return string(strRanks[id>>2]) + string(denseSuitChars[id&3])
}

// ParseID parses e.g. "As" into its dense identity.
func ParseID(s string) (CardID, error) {
	if len(s) != 2 {
		return NoCard, fmt.Errorf("invalid card %q", s)
	}
	rank := strings.IndexByte(strRanks, s[0])
	suit := strings.IndexByte(denseSuitChars, s[1])
	if rank < 0 || suit < 0 {
		return NoCard, fmt.Errorf("invalid card %q", s)
	}
	return CardID(rank*4 + suit), nil
}

func primeProductFromHand(cards []Card) int32 {
	product := int32(1)

	for _, card := range cards {
		product *= (int32(card) & 0xFF)
	}

	return product
}

func primeProductFromRankBits(rankBits int32) int32 {
	product := int32(1)

	for _, i := range intRanks {
		if rankBits&(1<<uint(i)) != 0 {
			product *= primes[i]
		}
	}

	return product
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.String())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}

// IDsToString renders a slice of dense identities for logs.
func IDsToString(ids []CardID) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, id := range ids {
		fmt.Fprintf(&b, " %s ", IDString(id))
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
