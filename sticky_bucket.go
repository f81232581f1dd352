package growthbook

import (
	"fmt"
	"sync"
)

// StickyBucketAssignmentDoc is the persisted record of every experiment
// variation a single user attribute value has ever been bucketed into.
type StickyBucketAssignmentDoc struct {
	AttributeName  string            `json:"attributeName"`
	AttributeValue string            `json:"attributeValue"`
	Assignments    map[string]string `json:"assignments"`
}

// StickyBucketAssignments indexes StickyBucketAssignmentDoc by the key
// getKey(attributeName, attributeValue) produces. Used both as the wire
// shape of a bulk fetch and as the in-process cache a Client keeps
// between calls to avoid redundant StickyBucketService round trips.
type StickyBucketAssignments map[string]*StickyBucketAssignmentDoc

// StickyBucketService is the storage contract a Client uses to persist
// and recall sticky bucket assignments. Implementations decide where
// documents live (in memory, Redis, a database); the evaluator only ever
// calls through this interface.
type StickyBucketService interface {
	GetAssignments(attributeName string, attributeValue string) (*StickyBucketAssignmentDoc, error)
	SaveAssignments(doc *StickyBucketAssignmentDoc) error
	GetAllAssignments(attributes map[string]string) (StickyBucketAssignments, error)
}

// StickyBucketResult is the outcome of resolving a prior assignment for
// one experiment: either a variation index, or a version block.
type StickyBucketResult struct {
	Variation        int
	VersionIsBlocked bool
}

// InMemoryStickyBucketService is a process-local StickyBucketService with
// no persistence across restarts, suitable for tests and single-process
// deployments.
type InMemoryStickyBucketService struct {
	mu   sync.RWMutex
	docs map[string]*StickyBucketAssignmentDoc
}

func NewInMemoryStickyBucketService() *InMemoryStickyBucketService {
	return &InMemoryStickyBucketService{docs: map[string]*StickyBucketAssignmentDoc{}}
}

// getKey builds the lookup key shared by every StickyBucketAssignments
// map and every StickyBucketService implementation.
func getKey(attributeName, attributeValue string) string {
	return attributeName + "||" + attributeValue
}

func (s *InMemoryStickyBucketService) GetAssignments(attributeName, attributeValue string) (*StickyBucketAssignmentDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[getKey(attributeName, attributeValue)], nil
}

func (s *InMemoryStickyBucketService) SaveAssignments(doc *StickyBucketAssignmentDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[getKey(doc.AttributeName, doc.AttributeValue)] = doc
	return nil
}

func (s *InMemoryStickyBucketService) GetAllAssignments(attributes map[string]string) (StickyBucketAssignments, error) {
	out := StickyBucketAssignments{}
	for name, val := range attributes {
		doc, err := s.GetAssignments(name, val)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			out[getKey(name, val)] = doc
		}
	}
	return out, nil
}

// Destroy drops every stored document. Mainly useful between test cases.
func (s *InMemoryStickyBucketService) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = map[string]*StickyBucketAssignmentDoc{}
}

// getStickyBucketExperimentKey is the key an experiment's assignments are
// filed under inside a StickyBucketAssignmentDoc: the experiment key plus
// its bucket version, so bumping BucketVersion starts every user fresh.
func getStickyBucketExperimentKey(experimentKey string, bucketVersion int) string {
	return fmt.Sprintf("%s__%d", experimentKey, bucketVersion)
}

// isVersionBlocked reports whether assignments shows the user was bucketed
// into any version of experimentKey older than minBucketVersion. Experiments
// use this to force a subset of previously-bucketed users out entirely,
// rather than just re-bucketing them under the new version.
func isVersionBlocked(assignments map[string]string, experimentKey string, minBucketVersion int) bool {
	if minBucketVersion <= 0 {
		return false
	}
	for v := 0; v < minBucketVersion; v++ {
		if _, ok := assignments[getStickyBucketExperimentKey(experimentKey, v)]; ok {
			return true
		}
	}
	return false
}

// GetStickyBucketVariation resolves a prior assignment for one experiment
// version, consulting both the primary hash attribute and, when present, a
// fallback attribute.
func GetStickyBucketVariation(
	experimentKey string,
	bucketVersion int,
	minBucketVersion int,
	meta []VariationMeta,
	service StickyBucketService,
	hashAttribute string,
	fallbackAttribute string,
	attributes map[string]string,
	cachedAssignments StickyBucketAssignments,
) (*StickyBucketResult, error) {
	result := &StickyBucketResult{Variation: -1}

	if bucketVersion < 0 {
		bucketVersion = 0
	}
	if minBucketVersion < 0 {
		minBucketVersion = 0
	}

	assignments, err := getStickyBucketAssignments(service, hashAttribute, fallbackAttribute, attributes, cachedAssignments)
	if err != nil {
		return result, err
	}

	if isVersionBlocked(assignments, experimentKey, minBucketVersion) {
		result.VersionIsBlocked = true
		return result, nil
	}

	variationKey, ok := assignments[getStickyBucketExperimentKey(experimentKey, bucketVersion)]
	if !ok {
		return result, nil
	}

	for i, m := range meta {
		if m.Key == variationKey {
			result.Variation = i
			break
		}
	}
	return result, nil
}

// stickyBucketSource identifies one attribute (hash or fallback) whose
// documents getStickyBucketAssignments may need to merge in.
type stickyBucketSource struct {
	name      string
	value     string
	isPrimary bool
}

// getStickyBucketAssignments merges the assignment documents for the
// primary hash attribute and, when distinct, the fallback attribute,
// preferring cachedAssignments over a StickyBucketService round trip and
// writing anything freshly fetched back into that cache. Primary-attribute
// assignments always win on key collision; fallback only fills gaps.
func getStickyBucketAssignments(
	service StickyBucketService,
	hashAttribute string,
	fallbackAttribute string,
	attributes map[string]string,
	cachedAssignments StickyBucketAssignments,
) (map[string]string, error) {
	merged := map[string]string{}
	if service == nil {
		return merged, nil
	}

	var sources []stickyBucketSource
	if v, ok := attributes[hashAttribute]; ok {
		sources = append(sources, stickyBucketSource{hashAttribute, v, true})
	}
	if fallbackAttribute != "" && fallbackAttribute != hashAttribute {
		if v, ok := attributes[fallbackAttribute]; ok {
			sources = append(sources, stickyBucketSource{fallbackAttribute, v, false})
		}
	}

	for _, src := range sources {
		key := getKey(src.name, src.value)

		doc, cached := lookupCachedDoc(cachedAssignments, key)
		if !cached {
			var err error
			doc, err = service.GetAssignments(src.name, src.value)
			if err != nil {
				return merged, err
			}
			if doc != nil && cachedAssignments != nil {
				cachedAssignments[key] = doc
			}
		}
		if doc == nil {
			continue
		}

		for k, v := range doc.Assignments {
			if _, exists := merged[k]; src.isPrimary || !exists {
				merged[k] = v
			}
		}
	}

	return merged, nil
}

func lookupCachedDoc(cache StickyBucketAssignments, key string) (*StickyBucketAssignmentDoc, bool) {
	if cache == nil {
		return nil, false
	}
	doc, ok := cache[key]
	return doc, ok
}

// SaveStickyBucketAssignment persists a single experiment variation
// assignment for one attribute value, skipping the write entirely when
// GenerateStickyBucketAssignmentDoc finds nothing actually changed.
func SaveStickyBucketAssignment(
	experimentKey string,
	bucketVersion int,
	variationID int,
	variationKey string,
	service StickyBucketService,
	attributeName string,
	attributeValue string,
	cachedAssignments StickyBucketAssignments,
) error {
	if service == nil || attributeName == "" || attributeValue == "" {
		return nil
	}

	assignments := map[string]string{
		getStickyBucketExperimentKey(experimentKey, bucketVersion): variationKey,
	}

	data := GenerateStickyBucketAssignmentDoc(attributeName, attributeValue, assignments, service)
	if data.Doc == nil || !data.Changed {
		return nil
	}

	if cachedAssignments != nil {
		cachedAssignments[data.Key] = data.Doc
	}
	return service.SaveAssignments(data.Doc)
}

// StickyBucketAssignmentData is the outcome of merging a candidate set of
// assignments into whatever document a StickyBucketService currently has
// on file for one attribute value.
type StickyBucketAssignmentData struct {
	Key     string
	Doc     *StickyBucketAssignmentDoc
	Changed bool
}

// GenerateStickyBucketAssignmentDoc loads the existing document for
// (attributeName, attributeValue), if any, and merges assignments into it,
// reporting whether the merge actually changed anything so callers can
// skip a no-op write.
func GenerateStickyBucketAssignmentDoc(
	attributeName string,
	attributeValue string,
	assignments map[string]string,
	service StickyBucketService,
) *StickyBucketAssignmentData {
	result := &StickyBucketAssignmentData{Key: getKey(attributeName, attributeValue)}

	if service == nil {
		return result
	}

	doc, err := service.GetAssignments(attributeName, attributeValue)
	if err != nil {
		return result
	}

	if doc == nil {
		doc = &StickyBucketAssignmentDoc{
			AttributeName:  attributeName,
			AttributeValue: attributeValue,
			Assignments:    map[string]string{},
		}
		result.Changed = true
	}

	for k, v := range assignments {
		if existing, ok := doc.Assignments[k]; !ok || existing != v {
			result.Changed = true
			break
		}
	}

	if result.Changed {
		merged := make(map[string]string, len(doc.Assignments)+len(assignments))
		for k, v := range doc.Assignments {
			merged[k] = v
		}
		for k, v := range assignments {
			merged[k] = v
		}
		doc.Assignments = merged
	}

	result.Doc = doc
	return result
}
