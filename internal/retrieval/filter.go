package retrieval

import (
	"chatgenius-context/internal/vectorstore"
)

// BuildAccessFilter builds the visibility predicate for a vector search from
// the channel context of the request. The result is a disjunction of
// conjunction groups evaluated by the index at query time.
//
// Visibility rules:
//   - public (and any unknown type): public content only
//   - private, dm, channel_query: public content plus the channel's own content
//   - assistant: public and private content
//   - user_query: only the target user's own content, regardless of channel
//
// When targetUsername is set and the type is not user_query, a sender_name
// constraint is added to every disjunct so personalized retrieval only
// surfaces that user's messages.
//
// Pure and total: never fails, never touches external state.
func BuildAccessFilter(channelType, channelID, userID, targetUsername string) *vectorstore.Filter {
	var groups [][]vectorstore.Match

	switch channelType {
	case ChannelPrivate, ChannelDM, ChannelChannelQuery:
		groups = [][]vectorstore.Match{
			{{Field: "channel_type", Value: ChannelPublic}},
			{{Field: "channel_id", Value: channelID}},
		}
	case ChannelAssistant:
		groups = [][]vectorstore.Match{
			{{Field: "channel_type", Value: ChannelPublic}},
			{{Field: "channel_type", Value: ChannelPrivate}},
		}
	case ChannelUserQuery:
		return &vectorstore.Filter{AnyOf: [][]vectorstore.Match{
			{{Field: "user_id", Value: userID}},
		}}
	default:
		// public and unknown types degrade to public-only visibility
		groups = [][]vectorstore.Match{
			{{Field: "channel_type", Value: ChannelPublic}},
		}
	}

	if targetUsername != "" {
		for i := range groups {
			groups[i] = append(groups[i], vectorstore.Match{Field: "sender_name", Value: targetUsername})
		}
	}

	return &vectorstore.Filter{AnyOf: groups}
}
