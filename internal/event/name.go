package event

import "fmt"

// Name identifies the kind of object-storage event a Event describes.
// It is a closed taxonomy of 32 leaf events plus 8 group names that
// expand to a set of leaves. Leaf ordinals determine the bit position
// used by mask, so their order below must never change.
type Name int

const (
	ObjectAccessedGet Name = iota + 1
	ObjectAccessedGetRetention
	ObjectAccessedGetLegalHold
	ObjectAccessedHead
	ObjectAccessedAttributes
	ObjectCreatedCompleteMultipartUpload
	ObjectCreatedCopy
	ObjectCreatedPost
	ObjectCreatedPut
	ObjectCreatedPutRetention
	ObjectCreatedPutLegalHold
	ObjectCreatedPutTagging
	ObjectCreatedDeleteTagging
	ObjectRemovedDelete
	ObjectRemovedDeleteMarkerCreated
	ObjectRemovedDeleteAllVersions
	ObjectRemovedNoOp
	BucketCreated
	BucketRemoved
	ObjectReplicationFailed
	ObjectReplicationComplete
	ObjectReplicationMissedThreshold
	ObjectReplicationReplicatedAfterThreshold
	ObjectReplicationNotTracked
	ObjectRestorePost
	ObjectRestoreCompleted
	ObjectTransitionFailed
	ObjectTransitionComplete
	ObjectManyVersions
	ObjectLargeVersions
	PrefixManyFolders
	IlmDelMarkerExpirationDelete

	// Group names. Mask treats every value from ObjectAccessedAll on as
	// a group, so no leaf may be declared after this point.
	ObjectAccessedAll
	ObjectCreatedAll
	ObjectRemovedAll
	ObjectReplicationAll
	ObjectRestoreAll
	ObjectTransitionAll
	ObjectScannerAll
	Everything
)

var nameStrings = map[Name]string{
	ObjectAccessedGet:                          "OBJECT_ACCESSED_GET",
	ObjectAccessedGetRetention:                 "OBJECT_ACCESSED_GET_RETENTION",
	ObjectAccessedGetLegalHold:                 "OBJECT_ACCESSED_GET_LEGAL_HOLD",
	ObjectAccessedHead:                         "OBJECT_ACCESSED_HEAD",
	ObjectAccessedAttributes:                   "OBJECT_ACCESSED_ATTRIBUTES",
	ObjectCreatedCompleteMultipartUpload:       "OBJECT_CREATED_COMPLETE_MULTIPART_UPLOAD",
	ObjectCreatedCopy:                          "OBJECT_CREATED_COPY",
	ObjectCreatedPost:                          "OBJECT_CREATED_POST",
	ObjectCreatedPut:                           "OBJECT_CREATED_PUT",
	ObjectCreatedPutRetention:                  "OBJECT_CREATED_PUT_RETENTION",
	ObjectCreatedPutLegalHold:                  "OBJECT_CREATED_PUT_LEGAL_HOLD",
	ObjectCreatedPutTagging:                    "OBJECT_CREATED_PUT_TAGGING",
	ObjectCreatedDeleteTagging:                 "OBJECT_CREATED_DELETE_TAGGING",
	ObjectRemovedDelete:                        "OBJECT_REMOVED_DELETE",
	ObjectRemovedDeleteMarkerCreated:           "OBJECT_REMOVED_DELETE_MARKER_CREATED",
	ObjectRemovedDeleteAllVersions:             "OBJECT_REMOVED_DELETE_ALL_VERSIONS",
	ObjectRemovedNoOp:                          "OBJECT_REMOVED_NO_OP",
	BucketCreated:                              "BUCKET_CREATED",
	BucketRemoved:                              "BUCKET_REMOVED",
	ObjectReplicationFailed:                    "OBJECT_REPLICATION_FAILED",
	ObjectReplicationComplete:                  "OBJECT_REPLICATION_COMPLETE",
	ObjectReplicationMissedThreshold:           "OBJECT_REPLICATION_MISSED_THRESHOLD",
	ObjectReplicationReplicatedAfterThreshold:  "OBJECT_REPLICATION_REPLICATED_AFTER_THRESHOLD",
	ObjectReplicationNotTracked:                "OBJECT_REPLICATION_NOT_TRACKED",
	ObjectRestorePost:                          "OBJECT_RESTORE_POST",
	ObjectRestoreCompleted:                     "OBJECT_RESTORE_COMPLETED",
	ObjectTransitionFailed:                     "OBJECT_TRANSITION_FAILED",
	ObjectTransitionComplete:                   "OBJECT_TRANSITION_COMPLETE",
	ObjectManyVersions:                         "OBJECT_MANY_VERSIONS",
	ObjectLargeVersions:                        "OBJECT_LARGE_VERSIONS",
	PrefixManyFolders:                          "PREFIX_MANY_FOLDERS",
	IlmDelMarkerExpirationDelete:                "ILM_DEL_MARKER_EXPIRATION_DELETE",
	ObjectAccessedAll:                          "OBJECT_ACCESSED_ALL",
	ObjectCreatedAll:                           "OBJECT_CREATED_ALL",
	ObjectRemovedAll:                           "OBJECT_REMOVED_ALL",
	ObjectReplicationAll:                       "OBJECT_REPLICATION_ALL",
	ObjectRestoreAll:                           "OBJECT_RESTORE_ALL",
	ObjectTransitionAll:                        "OBJECT_TRANSITION_ALL",
	ObjectScannerAll:                           "OBJECT_SCANNER_ALL",
	Everything:                                 "EVERYTHING",
}

var namesByString map[string]Name

func init() {
	namesByString = make(map[string]Name, len(nameStrings))
	for n, s := range nameStrings {
		namesByString[s] = n
	}
}

// String returns the SCREAMING_SNAKE_CASE wire form of n.
func (n Name) String() string {
	if s, ok := nameStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// MarshalText implements encoding.TextMarshaler so Name serializes as
// its wire string both in JSON and YAML.
func (n Name) MarshalText() ([]byte, error) {
	s, ok := nameStrings[n]
	if !ok {
		return nil, fmt.Errorf("event: unknown name %d", int(n))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	v, ok := namesByString[string(text)]
	if !ok {
		return fmt.Errorf("event: unknown name %q", text)
	}
	*n = v
	return nil
}

// groupMembers lists, in wire-table order, the leaves each group
// name expands to. This order matches the external wire table for
// group expansion, which is not always declaration order (notably
// ObjectAccessedAll lists Head before the two retention/legal-hold
// leaves).
var groupMembers = map[Name][]Name{
	ObjectAccessedAll: {
		ObjectAccessedGet,
		ObjectAccessedHead,
		ObjectAccessedGetRetention,
		ObjectAccessedGetLegalHold,
		ObjectAccessedAttributes,
	},
	ObjectCreatedAll: {
		ObjectCreatedCompleteMultipartUpload,
		ObjectCreatedCopy,
		ObjectCreatedPost,
		ObjectCreatedPut,
		ObjectCreatedPutRetention,
		ObjectCreatedPutLegalHold,
		ObjectCreatedPutTagging,
		ObjectCreatedDeleteTagging,
	},
	ObjectRemovedAll: {
		ObjectRemovedDelete,
		ObjectRemovedDeleteMarkerCreated,
		ObjectRemovedNoOp,
		ObjectRemovedDeleteAllVersions,
	},
	ObjectReplicationAll: {
		ObjectReplicationFailed,
		ObjectReplicationComplete,
		ObjectReplicationNotTracked,
		ObjectReplicationMissedThreshold,
		ObjectReplicationReplicatedAfterThreshold,
	},
	ObjectRestoreAll: {
		ObjectRestorePost,
		ObjectRestoreCompleted,
	},
	ObjectTransitionAll: {
		ObjectTransitionFailed,
		ObjectTransitionComplete,
	},
	ObjectScannerAll: {
		ObjectManyVersions,
		ObjectLargeVersions,
		PrefixManyFolders,
	},
}

// Expand returns the leaf names n represents. For a leaf, that is a
// single-element slice containing itself. For a group, it is the
// group's members in wire-table order. Everything expands to every
// leaf in ordinal (declaration) order, including the ungrouped
// IlmDelMarkerExpirationDelete leaf.
func (n Name) Expand() []Name {
	if n == Everything {
		leaves := make([]Name, 0, int(IlmDelMarkerExpirationDelete))
		for i := Name(1); i <= IlmDelMarkerExpirationDelete; i++ {
			leaves = append(leaves, i)
		}
		return leaves
	}
	if members, ok := groupMembers[n]; ok {
		out := make([]Name, len(members))
		copy(out, members)
		return out
	}
	return []Name{n}
}

// Mask returns the bitmask of leaf ordinals n represents: a single
// bit for a leaf, the union of member bits for a group.
func (n Name) Mask() uint64 {
	if n < ObjectAccessedAll {
		return 1 << uint(n-1)
	}
	var mask uint64
	for _, leaf := range n.Expand() {
		mask |= 1 << uint(leaf-1)
	}
	return mask
}

// IsLeaf reports whether n is one of the 32 concrete leaf events
// rather than a group name.
func (n Name) IsLeaf() bool {
	return n >= ObjectAccessedGet && n <= IlmDelMarkerExpirationDelete
}
