package rankselect_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/rankselect"
	"github.com/hupe1980/rankselect/bitvec"
	"github.com/hupe1980/rankselect/blobstore"
)

// Example_spaceEfficient answers rank and select over 10110100.
func Example_spaceEfficient() {
	words := bitvec.MustParse("10110100")

	idx, err := rankselect.NewSpaceEfficient(words, 4)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	for i := 1; i <= 8; i++ {
		r, _ := idx.Rank(i)
		fmt.Print(r, " ")
	}
	fmt.Println()

	for r := 1; r <= 4; r++ {
		p, _ := idx.Select(r)
		fmt.Print(p, " ")
	}
	fmt.Println()

	_, ok := idx.Select(5)
	fmt.Println(ok)
	// Output:
	// 1 1 2 3 3 4 4 4
	// 1 3 4 6
	// false
}

// Example_errors shows the error forms of the queries.
func Example_errors() {
	idx, err := rankselect.NewLookUp(bitvec.MustParse("1"))
	if err != nil {
		log.Fatal(err)
	}

	_, err = idx.RankOf(65)
	fmt.Println(errors.Is(err, rankselect.ErrOutOfRange))

	_, err = idx.SelectOf(2)
	fmt.Println(errors.Is(err, rankselect.ErrNotFound))

	_, err = rankselect.NewSpaceEfficient(bitvec.MustParse("1"), 0)
	fmt.Println(errors.Is(err, rankselect.ErrInvalidK))
	// Output:
	// true
	// true
	// true
}

// Example_snapshot saves an index to a local directory and loads it back.
func Example_snapshot() {
	dir, err := os.MkdirTemp("", "rankselect-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	store := blobstore.NewLocalStore(dir)

	idx, err := rankselect.NewSpaceEfficient(bitvec.MustParse("0001"), 2,
		rankselect.WithCompression(rankselect.CompressionZSTD))
	if err != nil {
		log.Fatal(err)
	}
	if err := idx.Save(ctx, store, "bits.rsnp"); err != nil {
		log.Fatal(err)
	}

	loaded, err := rankselect.Load(ctx, store, "bits.rsnp")
	if err != nil {
		log.Fatal(err)
	}
	p, _ := loaded.Select(1)
	fmt.Println(loaded.Kind(), loaded.K(), p)
	// Output: space-efficient 2 4
}
