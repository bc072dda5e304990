package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/aglyzov/go-hamt/hamt"
)

type settings struct {
	Pows   int    `toml:"pows"`
	Levels int    `toml:"levels"`
	Hash   string `toml:"hash"` // "xxhash" or "poly31"
	Limit  int    `toml:"limit"`
}

func main() {
	var (
		conf = settings{Pows: 16, Hash: "poly31"}
		path = flag.String("config", "", "TOML file with pows/levels/hash/limit")
	)

	flag.IntVar(&conf.Pows, "pows", conf.Pows, "insert 2^pows keys")
	flag.IntVar(&conf.Levels, "levels", conf.Levels, "branching levels (0 for the default)")
	flag.StringVar(&conf.Hash, "hash", conf.Hash, "key hash: xxhash or poly31")
	flag.IntVar(&conf.Limit, "limit", conf.Limit, "max live objects (0 for unbounded)")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if *path != "" {
		if _, err = toml.DecodeFile(*path, &conf); err != nil {
			log.Fatal("bad config", zap.String("path", *path), zap.Error(err))
		}
	}

	if err = run(conf, log); err != nil {
		log.Fatal("run failed", zap.Error(err))
	}
}

func run(conf settings, log *zap.Logger) error {
	var (
		alloc = &hamt.CountingAllocator{Limit: conf.Limit}
		hash  = hamt.HashStringPoly31
	)

	if conf.Hash == "xxhash" {
		hash = hamt.HashString
	}

	cfg := hamt.Config[string, int]{
		Hash:       hash,
		CopyKey:    strings.Clone,
		FreeKey:    func(string) {},
		CopyValue:  func(v int) int { return v },
		FreeValue:  func(int) {},
		CompareKey: strings.Compare,
		Levels:     conf.Levels,
		Allocator:  alloc,
		Logger:     log,
	}

	h, err := hamt.New(cfg)
	if err != nil {
		return err
	}

	total := 1 << conf.Pows

	for i := 0; i < total; i++ {
		if _, err = h.Insert(strconv.Itoa(i), i); err != nil {
			return fmt.Errorf("insert %d: %w", i, err)
		}
	}

	size, _ := h.Len()
	st, _ := h.Stats()

	fmt.Printf("size at peak: %d\n", size)
	fmt.Printf("nodes: %d, leaves: %d, longest chain: %d, live objects: %d\n",
		st.Internal, st.Leaves, st.MaxChain, alloc.Total())

	for i := 0; i < total; i++ {
		val, ok, err := h.Remove(strconv.Itoa(i))
		if err != nil {
			return fmt.Errorf("remove %d: %w", i, err)
		}
		if !ok || val != i {
			fmt.Printf("Expected %d, but got %d\n", i, val)
		}
	}

	size, _ = h.Len()
	fmt.Printf("size after remove: %d\n", size)

	if err = h.Free(); err != nil {
		return err
	}

	log.Info("done", zap.Int("peak objects", alloc.Peak()), zap.Int("leaked", alloc.Total()))

	return nil
}
