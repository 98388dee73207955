package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tetherhq/tether-read/model"
)

func listRequest(mods ...func(*model.ListBooksRequest)) *model.ListBooksRequest {
	req := &model.ListBooksRequest{
		OwnerID: "owner-1",
		Page:    1,
		Limit:   20,
		SortBy:  "createdAt",
		Order:   "desc",
		Status:  model.StatusAll,
	}
	for _, mod := range mods {
		mod(req)
	}
	return req
}

func TestBuildListFilterOwnerOnly(t *testing.T) {
	filter := buildListFilter(listRequest())
	if filter["ownerId"] != "owner-1" {
		t.Errorf("filter missing owner restriction: %v", filter)
	}
	if _, ok := filter["$or"]; ok {
		t.Errorf("empty search must not add a text predicate")
	}
}

func TestBuildListFilterSearch(t *testing.T) {
	filter := buildListFilter(listRequest(func(r *model.ListBooksRequest) {
		r.Search = "c++ (draft)"
	}))

	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("search should match title or author: %v", filter)
	}
	title := or[0].(bson.M)["title"].(primitive.Regex)
	if title.Options != "i" {
		t.Errorf("search must be case-insensitive, got options %q", title.Options)
	}
	// metacharacters in user input stay literal
	if title.Pattern == "c++ (draft)" {
		t.Errorf("pattern not quoted: %q", title.Pattern)
	}
	author := or[1].(bson.M)["author"].(primitive.Regex)
	if author.Pattern != title.Pattern {
		t.Errorf("title and author patterns differ: %q vs %q", title.Pattern, author.Pattern)
	}
}

func TestBuildFindOptionsWindowing(t *testing.T) {
	opts := buildFindOptions(listRequest(func(r *model.ListBooksRequest) {
		r.Page = 3
		r.Limit = 10
	}))
	if *opts.Skip != 20 {
		t.Errorf("skip = %d, want 20", *opts.Skip)
	}
	if *opts.Limit != 10 {
		t.Errorf("limit = %d, want 10", *opts.Limit)
	}
	if opts.Collation != nil {
		t.Errorf("createdAt sort should not set a collation")
	}

	sort := opts.Sort.(bson.D)
	if len(sort) != 2 || sort[0].Key != "createdAt" || sort[1].Key != "_id" {
		t.Fatalf("sort missing _id tie-break: %v", sort)
	}
	if sort[0].Value != -1 || sort[1].Value != -1 {
		t.Errorf("desc order should sort descending on both keys: %v", sort)
	}
}

func TestBuildFindOptionsTextSortCollation(t *testing.T) {
	opts := buildFindOptions(listRequest(func(r *model.ListBooksRequest) {
		r.SortBy = "title"
		r.Order = "asc"
	}))
	if opts.Collation == nil {
		t.Fatalf("title sort needs a case-insensitive collation")
	}
	if opts.Collation.Locale != "en" || opts.Collation.Strength != 2 {
		t.Errorf("collation = %+v, want locale en strength 2", opts.Collation)
	}
	sort := opts.Sort.(bson.D)
	if sort[0].Value != 1 {
		t.Errorf("asc order should sort ascending, got %v", sort[0].Value)
	}
}

func TestFilterByStatus(t *testing.T) {
	page := []*model.Book{
		{Title: "untouched"},
		{Title: "started", CFI: "epubcfi(/6/4!/4/2)", Percentage: 12},
		{Title: "done", CFI: "epubcfi(/6/88!/4/2)", Percentage: 100},
		{Title: "stalled at zero", CFI: "epubcfi(/6/4!/4/2)", Percentage: 0},
	}

	unread := filterByStatus(page, model.StatusUnread)
	if len(unread) != 2 {
		t.Errorf("unread = %d records, want 2", len(unread))
	}
	for _, b := range unread {
		if b.Percentage > 0 {
			t.Errorf("unread page contains %q with percentage %v", b.Title, b.Percentage)
		}
	}

	if got := filterByStatus(page, model.StatusReading); len(got) != 1 || got[0].Title != "started" {
		t.Errorf("reading filter wrong: %v", got)
	}
	if got := filterByStatus(page, model.StatusCompleted); len(got) != 1 || got[0].Title != "done" {
		t.Errorf("completed filter wrong: %v", got)
	}
}

// The status filter runs after pagination: the metadata keeps counting the
// pre-filter set. This asserts the documented behavior, not an ideal one.
func TestStatusFilterDoesNotChangeTotals(t *testing.T) {
	req := listRequest(func(r *model.ListBooksRequest) {
		r.Status = model.StatusCompleted
	})
	meta := model.NewPageMeta(req, 40)
	if meta.Total != 40 || meta.TotalPages != 2 {
		t.Errorf("totals must reflect the owner+search predicate only: %+v", meta)
	}
}

func TestClampPercentage(t *testing.T) {
	if got := clampPercentage(-5); got != 0 {
		t.Errorf("clamp(-5) = %v", got)
	}
	if got := clampPercentage(150); got != 100 {
		t.Errorf("clamp(150) = %v", got)
	}
	if got := clampPercentage(55); got != 55 {
		t.Errorf("clamp(55) = %v", got)
	}
}
