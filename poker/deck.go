package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewShuffledDeck shuffles a full deck using the given generator. The
// generator is always supplied by the caller so that the seed can be
// threaded in from an external randomness source; there is no
// process-global shuffle state.
func NewShuffledDeck(randGen *rand.Rand) *Deck {
	if randGen == nil {
		randGen = rand.New(newSeed())
	}
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	randGen.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

func DeckFromIDs(ids []CardID) *Deck {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = NewCardFromID(id)
	}
	return &Deck{cards: cards}
}

func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

func (deck *Deck) DrawIDs(n int) []CardID {
	cards := deck.Draw(n)
	ids := make([]CardID, n)
	for i, c := range cards {
		ids[i] = c.ID()
	}
	return ids
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) GetIDs() []CardID {
	ids := make([]CardID, len(deck.cards))
	for i, card := range deck.cards {
		ids[i] = card.ID()
	}
	return ids
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

type CardsInAscii []string

// DeckFromScript builds an unshuffled deck arranged so that dealing two
// cards per seat in seat order followed by five community cards yields
// exactly the scripted cards. Used by deterministic tests.
func DeckFromScript(playerCards []CardsInAscii, community CardsInAscii) *Deck {
	deck := NewDeckNoShuffle()

	scripted := make([]Card, 0, len(playerCards)*2+len(community))
	for _, pc := range playerCards {
		if len(pc) != 2 {
			panic(fmt.Sprintf("scripted seat needs 2 cards, got %d", len(pc)))
		}
		for _, c := range pc {
			scripted = append(scripted, NewCard(c))
		}
	}
	for _, c := range community {
		scripted = append(scripted, NewCard(c))
	}

	for i, want := range scripted {
		loc := -1
		for j := i; j < len(deck.cards); j++ {
			if deck.cards[j] == want {
				loc = j
				break
			}
		}
		if loc < 0 {
			panic(fmt.Sprintf("scripted card %s appears twice", want))
		}
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}
	return deck
}

// The fixed base order makes a seeded shuffle reproduce the same deck
// in every process.
func initializeFullCards() []Card {
	var cards []Card

	for _, rank := range strRanks {
		for _, suit := range denseSuitChars {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}

	return cards
}
