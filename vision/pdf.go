//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package vision

import (
	"bytes"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-kbchat/log"
)

// extractPages returns the plain text of each PDF page, in page order.
// Unreadable pages yield an empty string at their index so page numbering
// stays aligned with the document.
func extractPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	total := reader.NumPage()
	pages := make([]string, 0, total)
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warnf("pdf page %d unreadable: %v", pageIndex, err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// fanOutPages runs analyze over every page on a bounded worker pool and
// returns the results indexed by original page position. A page whose
// analysis fails contributes an empty result rather than failing the
// document.
func fanOutPages(pages []string, parallelism int, analyze func(i int, text string) (string, error)) []string {
	results := make([]string, len(pages))
	if parallelism < 1 {
		parallelism = 1
	}
	pool, err := ants.NewPool(parallelism)
	if err != nil {
		// Pool creation only fails on invalid size; fall back to serial.
		for i, text := range pages {
			results[i] = analyzePage(i, text, analyze)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, text := range pages {
		wg.Add(1)
		pageIndex := i
		pageText := text
		if err := pool.Submit(func() {
			defer wg.Done()
			results[pageIndex] = analyzePage(pageIndex, pageText, analyze)
		}); err != nil {
			wg.Done()
			results[pageIndex] = analyzePage(pageIndex, pageText, analyze)
		}
	}
	wg.Wait()
	return results
}

func analyzePage(i int, text string, analyze func(i int, text string) (string, error)) string {
	desc, err := analyze(i, text)
	if err != nil {
		log.Warnf("page %d analysis failed: %v", i+1, err)
		return ""
	}
	return desc
}
