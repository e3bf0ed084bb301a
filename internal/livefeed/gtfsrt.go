package livefeed

import (
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/railtracker/backend/internal/domain"
)

const gtfsRealtimeVersion = "2.0"

// FeedMessage renders a live snapshot as a full-dataset GTFS-Realtime feed with one
// vehicle position per train
func FeedMessage(snapshot []domain.LiveTrain, now time.Time) *gtfs.FeedMessage {
	timestamp := uint64(now.Unix())

	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(timestamp),
		},
	}

	for _, train := range snapshot {
		trip := &gtfs.TripDescriptor{
			TripId: proto.String(train.Number),
		}

		vehicle := &gtfs.VehiclePosition{
			Trip: trip,
			Vehicle: &gtfs.VehicleDescriptor{
				Id:    proto.String(train.ID),
				Label: proto.String(train.Name),
			},
			Timestamp: proto.Uint64(timestamp),
		}

		switch train.Status {
		case domain.LiveStationary:
			vehicle.CurrentStatus = gtfs.VehiclePosition_STOPPED_AT.Enum()
			vehicle.StopId = proto.String(train.CurrentStation)
		case domain.LiveCancelled:
			trip.ScheduleRelationship = gtfs.TripDescriptor_CANCELED.Enum()
		default:
			vehicle.CurrentStatus = gtfs.VehiclePosition_IN_TRANSIT_TO.Enum()
			vehicle.StopId = proto.String(train.NextStation)
		}

		feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
			Id:      proto.String(train.ID),
			Vehicle: vehicle,
		})
	}

	return feed
}

// MarshalFeed encodes a snapshot as GTFS-Realtime protobuf bytes
func MarshalFeed(snapshot []domain.LiveTrain, now time.Time) ([]byte, error) {
	body, err := proto.Marshal(FeedMessage(snapshot, now))
	if err != nil {
		return nil, fmt.Errorf("livefeed: failed to encode gtfs-rt feed: %w", err)
	}
	return body, nil
}
