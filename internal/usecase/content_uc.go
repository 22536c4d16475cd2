package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/capsulahaus/shop/internal/domain"
)

type ContentUC struct {
	Pages domain.PageRepo

	now func() time.Time
}

func NewContentUC(pages domain.PageRepo) *ContentUC {
	return &ContentUC{Pages: pages, now: time.Now}
}

// --- blocks ---

func (uc *ContentUC) ListBlocks(ctx context.Context, pageSlug string) ([]domain.PageBlock, error) {
	return uc.Pages.ListBlocks(ctx, pageSlug)
}

func (uc *ContentUC) AddBlock(ctx context.Context, b *domain.PageBlock) error {
	if b.PageSlug == "" || b.Type == "" {
		return errors.New("block page slug and type required")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	existing, err := uc.Pages.ListBlocks(ctx, b.PageSlug)
	if err != nil {
		return err
	}
	b.Position = len(existing)
	return uc.Pages.SaveBlock(ctx, b)
}

// Reorder rewrites one page's block order to match orderedIDs and
// renumbers every block to its new index, so positions come out
// contiguous and unique no matter what they were before. IDs missing
// from orderedIDs keep their relative order after the listed ones.
func (uc *ContentUC) Reorder(ctx context.Context, pageSlug string, orderedIDs []uuid.UUID) ([]domain.PageBlock, error) {
	blocks, err := uc.Pages.ListBlocks(ctx, pageSlug)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.PageBlock, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}
	reordered := make([]domain.PageBlock, 0, len(blocks))
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if b, ok := byID[id]; ok && !seen[id] {
			reordered = append(reordered, b)
			seen[id] = true
		}
	}
	for _, b := range blocks {
		if !seen[b.ID] {
			reordered = append(reordered, b)
		}
	}
	for i := range reordered {
		reordered[i].Position = i
	}
	if err := uc.Pages.SaveBlocks(ctx, reordered); err != nil {
		return nil, err
	}
	return reordered, nil
}

// ToggleBlock flips enabled on one block. The block stays in the list;
// hiding it is up to the renderer.
func (uc *ContentUC) ToggleBlock(ctx context.Context, id uuid.UUID) (*domain.PageBlock, error) {
	b, err := uc.Pages.FindBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Enabled = !b.Enabled
	if err := uc.Pages.SaveBlock(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *ContentUC) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	b, err := uc.Pages.FindBlock(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := uc.Pages.DeleteBlock(ctx, id); err != nil {
		return err
	}
	// close the gap left behind
	_, err = uc.Reorder(ctx, b.PageSlug, nil)
	return err
}

// --- per-page content ---

func (uc *ContentUC) GetContent(ctx context.Context, slug string) (*domain.PageContent, error) {
	return uc.Pages.FindContent(ctx, slug)
}

func (uc *ContentUC) UpdateHero(ctx context.Context, slug, title, subtitle string) error {
	h, c, err := uc.homeContent(ctx, slug)
	if err != nil {
		return err
	}
	h.HeroTitle = title
	h.HeroSubtitle = subtitle
	return uc.saveHome(ctx, c, h)
}

// AddInnovation appends a feature item, assigning its id from the clock.
func (uc *ContentUC) AddInnovation(ctx context.Context, slug string, item domain.FeatureItem) error {
	h, c, err := uc.homeContent(ctx, slug)
	if err != nil {
		return err
	}
	item.ID = uc.clock()().UnixMilli()
	h.Innovations = append(h.Innovations, item)
	return uc.saveHome(ctx, c, h)
}

// RemoveInnovation drops the item at idx; out-of-range is a no-op.
func (uc *ContentUC) RemoveInnovation(ctx context.Context, slug string, idx int) error {
	h, c, err := uc.homeContent(ctx, slug)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(h.Innovations) {
		return nil
	}
	h.Innovations = append(h.Innovations[:idx], h.Innovations[idx+1:]...)
	return uc.saveHome(ctx, c, h)
}

// UpdateInnovation merges non-empty fields of patch into the item at idx.
func (uc *ContentUC) UpdateInnovation(ctx context.Context, slug string, idx int, patch domain.FeatureItem) error {
	h, c, err := uc.homeContent(ctx, slug)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(h.Innovations) {
		return nil
	}
	it := &h.Innovations[idx]
	if patch.Icon != "" {
		it.Icon = patch.Icon
	}
	if patch.Title != "" {
		it.Title = patch.Title
	}
	if patch.Description != "" {
		it.Description = patch.Description
	}
	return uc.saveHome(ctx, c, h)
}

func (uc *ContentUC) AddOption(ctx context.Context, slug string, item domain.OptionItem) error {
	o, c, err := uc.optionsContent(ctx, slug)
	if err != nil {
		return err
	}
	item.ID = uc.clock()().UnixMilli()
	o.AdditionalOptions = append(o.AdditionalOptions, item)
	return uc.saveOptions(ctx, c, o)
}

func (uc *ContentUC) RemoveOption(ctx context.Context, slug string, idx int) error {
	o, c, err := uc.optionsContent(ctx, slug)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(o.AdditionalOptions) {
		return nil
	}
	o.AdditionalOptions = append(o.AdditionalOptions[:idx], o.AdditionalOptions[idx+1:]...)
	return uc.saveOptions(ctx, c, o)
}

func (uc *ContentUC) UpdateOption(ctx context.Context, slug string, idx int, patch domain.OptionItem) error {
	o, c, err := uc.optionsContent(ctx, slug)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(o.AdditionalOptions) {
		return nil
	}
	it := &o.AdditionalOptions[idx]
	if patch.Title != "" {
		it.Title = patch.Title
	}
	if patch.Description != "" {
		it.Description = patch.Description
	}
	if patch.Price != 0 {
		it.Price = patch.Price
	}
	return uc.saveOptions(ctx, c, o)
}

func (uc *ContentUC) homeContent(ctx context.Context, slug string) (domain.HomeContent, *domain.PageContent, error) {
	c, err := uc.Pages.FindContent(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		c = &domain.PageContent{Slug: slug, Kind: domain.PageKindHome}
	} else if err != nil {
		return domain.HomeContent{}, nil, err
	}
	if c.Kind != domain.PageKindHome {
		return domain.HomeContent{}, nil, fmt.Errorf("page %q holds %q content", slug, c.Kind)
	}
	h, err := c.Home()
	return h, c, err
}

func (uc *ContentUC) saveHome(ctx context.Context, c *domain.PageContent, h domain.HomeContent) error {
	if err := c.SetPayload(h); err != nil {
		return err
	}
	return uc.Pages.SaveContent(ctx, c)
}

func (uc *ContentUC) optionsContent(ctx context.Context, slug string) (domain.OptionsContent, *domain.PageContent, error) {
	c, err := uc.Pages.FindContent(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		c = &domain.PageContent{Slug: slug, Kind: domain.PageKindOptions}
	} else if err != nil {
		return domain.OptionsContent{}, nil, err
	}
	if c.Kind != domain.PageKindOptions {
		return domain.OptionsContent{}, nil, fmt.Errorf("page %q holds %q content", slug, c.Kind)
	}
	o, err := c.Options()
	return o, c, err
}

func (uc *ContentUC) saveOptions(ctx context.Context, c *domain.PageContent, o domain.OptionsContent) error {
	if err := c.SetPayload(o); err != nil {
		return err
	}
	return uc.Pages.SaveContent(ctx, c)
}

func (uc *ContentUC) clock() func() time.Time {
	if uc.now != nil {
		return uc.now
	}
	return time.Now
}
