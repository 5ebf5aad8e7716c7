// Package frontier tracks which URLs a crawl has visited and which are
// still waiting to be fetched.
//
// A URL is pending or visited, never both. Next moves a URL from pending to
// visited, so a URL is fetched at most once per crawl no matter how many
// pages link to it. The frontier stores URLs as given; callers normalize
// before offering.
package frontier

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Order selects which pending URL Next returns.
type Order int

const (
	// OrderUnordered returns pending URLs in no particular order.
	OrderUnordered Order = iota

	// OrderDiscovery returns pending URLs in the order they were first
	// offered, giving a breadth-first crawl.
	OrderDiscovery
)

// String returns the configuration name of the order.
func (o Order) String() string {
	switch o {
	case OrderUnordered:
		return "unordered"
	case OrderDiscovery:
		return "discovery"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder converts a configuration name into an Order.
// An empty string selects OrderUnordered.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unordered":
		return OrderUnordered, nil
	case "discovery", "bfs":
		return OrderDiscovery, nil
	default:
		return OrderUnordered, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
	}
}

// Frontier is the visited set plus the pending set of a crawl.
// All methods are safe for concurrent use.
type Frontier struct {
	mu sync.Mutex

	order   Order
	pending map[string]struct{}
	visited map[string]struct{}

	// queue holds pending URLs in discovery order. It is only populated
	// for OrderDiscovery.
	queue []string
}

// New creates an empty Frontier using the given order.
func New(order Order) *Frontier {
	return &Frontier{
		order:   order,
		pending: make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Seed adds the starting URL. It is equivalent to Offer with a single URL
// and reports whether the URL was added.
func (f *Frontier) Seed(u string) bool {
	return len(f.Offer(u)) == 1
}

// Offer adds every URL that is neither visited nor already pending and
// returns the ones that were added, in argument order. Empty strings are
// ignored.
func (f *Frontier) Offer(urls ...string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := f.visited[u]; ok {
			continue
		}
		if _, ok := f.pending[u]; ok {
			continue
		}
		f.pending[u] = struct{}{}
		if f.order == OrderDiscovery {
			f.queue = append(f.queue, u)
		}
		added = append(added, u)
	}
	return added
}

// Next removes one URL from the pending set, marks it visited and returns
// it. The second result is false when nothing is pending.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return "", false
	}

	var next string
	if f.order == OrderDiscovery {
		next = f.queue[0]
		f.queue[0] = ""
		f.queue = f.queue[1:]
	} else {
		for u := range f.pending {
			next = u
			break
		}
	}

	delete(f.pending, next)
	f.visited[next] = struct{}{}
	return next, true
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// VisitedCount returns the number of URLs handed out by Next.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// IsVisited reports whether u has been handed out by Next.
func (f *Frontier) IsVisited(u string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.visited[u]
	return ok
}

// Visited returns the visited URLs in lexicographic order.
func (f *Frontier) Visited() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedKeys(f.visited)
}

// Pending returns the pending URLs in lexicographic order.
func (f *Frontier) Pending() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedKeys(f.pending)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
