package sourcebackend_test

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/source"
	"github.com/tauraamui/dragoneye/pkg/source/sourcebackend"
)

func testGroups() []configdef.SourceGroup {
	return []configdef.SourceGroup{
		{
			Name:       "kinect",
			Correlated: true,
			Color:      configdef.Sensor{Enabled: true, Width: 64, Height: 36, FPS: 60, Format: "bgra8"},
			Depth:      configdef.Sensor{Enabled: true, Width: 32, Height: 18, FPS: 60, DepthScale: 0.001},
			Infrared:   configdef.Sensor{Enabled: true, Width: 32, Height: 18, FPS: 60, Bits: 8},
		},
		{
			Name:     "disabled",
			Disabled: true,
			Color:    configdef.Sensor{Enabled: true, Width: 8, Height: 8},
		},
		{
			Name:  "webcam",
			Color: configdef.Sensor{Enabled: true, Width: 16, Height: 9, FPS: 60, Format: "rgba8"},
		},
	}
}

type SyntheticBackendTestSuite struct {
	suite.Suite
	backend source.Backend
	groups  []source.Group
}

func TestSyntheticBackendTestSuite(t *testing.T) {
	suite.Run(t, &SyntheticBackendTestSuite{})
}

func (suite *SyntheticBackendTestSuite) SetupSuite() {
	logging.CurrentLoggingLevel = logging.SilentLevel
}

func (suite *SyntheticBackendTestSuite) TearDownSuite() {
	logging.CurrentLoggingLevel = logging.WarnLevel
}

func (suite *SyntheticBackendTestSuite) SetupTest() {
	suite.backend = sourcebackend.Resolve("synthetic", testGroups())
	groups, err := suite.backend.FindAllGroups(context.Background())
	suite.Require().NoError(err)
	suite.groups = groups
}

func (suite *SyntheticBackendTestSuite) capture(g source.Group) source.Capture {
	c, err := suite.backend.InitializeCapture(context.Background(), g)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { c.Close() })
	return c
}

func (suite *SyntheticBackendTestSuite) reader(c source.Capture, g source.Group, k frame.Kind) source.Reader {
	info, ok := g.Find(k)
	suite.Require().True(ok)
	r, err := c.CreateReader(context.Background(), info.ID)
	suite.Require().NoError(err)
	return r
}

func (suite *SyntheticBackendTestSuite) TestFindAllGroupsSkipsDisabledAndKeepsStableIDs() {
	suite.Require().Len(suite.groups, 2)
	suite.Equal("kinect", suite.groups[0].DisplayName)
	suite.Equal("webcam", suite.groups[1].DisplayName)

	suite.True(suite.groups[0].Has(frame.Color))
	suite.True(suite.groups[0].Has(frame.Depth))
	suite.True(suite.groups[0].Has(frame.Infrared))
	suite.False(suite.groups[1].Has(frame.Depth))

	again, err := sourcebackend.Synthetic(testGroups()).FindAllGroups(context.Background())
	suite.Require().NoError(err)
	suite.Equal(suite.groups[0].ID, again[0].ID)
	suite.Equal(suite.groups[0].Infos, again[0].Infos)
}

func (suite *SyntheticBackendTestSuite) TestInitializeCaptureOnUnknownGroupFails() {
	_, err := suite.backend.InitializeCapture(context.Background(), source.Group{ID: "missing"})
	suite.True(errors.Is(err, source.ErrGroupNotFound))
}

func (suite *SyntheticBackendTestSuite) TestCreateReaderForForeignSourceFails() {
	c := suite.capture(suite.groups[1])
	info, _ := suite.groups[0].Find(frame.Depth)

	suite.False(c.HasSource(info.ID))
	_, err := c.CreateReader(context.Background(), info.ID)
	suite.True(errors.Is(err, source.ErrSourceNotFound))
}

func (suite *SyntheticBackendTestSuite) TestReaderAcquiresNothingUntilStarted() {
	c := suite.capture(suite.groups[0])
	r := suite.reader(c, suite.groups[0], frame.Depth)

	sourcebackend.Emit(r)
	suite.Nil(r.TryAcquireLatestFrame())
}

func (suite *SyntheticBackendTestSuite) TestStartedReaderFiresAndHandsOutEachFrameOnce() {
	c := suite.capture(suite.groups[0])
	r := suite.reader(c, suite.groups[0], frame.Infrared)

	arrived := make(chan *frame.Frame, 16)
	reg := r.OnFrameArrived(func(src source.Reader) {
		if f := src.TryAcquireLatestFrame(); f != nil {
			select {
			case arrived <- f:
			default:
			}
		}
	})
	defer reg.Release()

	suite.Require().NoError(r.Start(context.Background()))

	select {
	case f := <-arrived:
		suite.Equal(frame.Infrared, f.Kind)
		suite.Equal(frame.Gray8, f.Bitmap.Format)
		suite.Equal(32, f.Bitmap.Width)
	case <-time.After(3 * time.Second):
		suite.Fail("no frame arrived")
	}

	suite.Require().NoError(r.Stop(context.Background()))
	suite.Nil(r.TryAcquireLatestFrame())
	suite.NoError(r.Stop(context.Background()))
}

func (suite *SyntheticBackendTestSuite) TestCloseStopsReaders() {
	c, err := suite.backend.InitializeCapture(context.Background(), suite.groups[1])
	suite.Require().NoError(err)
	r := suite.reader(c, suite.groups[1], frame.Color)
	suite.Require().NoError(r.Start(context.Background()))

	suite.Require().NoError(c.Close())
	suite.Nil(r.TryAcquireLatestFrame())
	suite.True(errors.Is(r.Start(context.Background()), source.ErrReaderStopped))

	info, _ := suite.groups[1].Find(frame.Color)
	_, err = c.CreateReader(context.Background(), info.ID)
	suite.Error(err)
}

func (suite *SyntheticBackendTestSuite) TestColorFramesCarryCameraModel() {
	c := suite.capture(suite.groups[0])
	f := sourcebackend.Generate(suite.reader(c, suite.groups[0], frame.Color), 1)

	suite.Equal(frame.Bgra8, f.Bitmap.Format)
	suite.Equal(64, f.Bitmap.Width)
	suite.Equal(36, f.Bitmap.Height)
	suite.NoError(f.Intrinsics.CheckValid())
	suite.NotEmpty(f.CoordinateSystem.ID())

	webcam := suite.capture(suite.groups[1])
	rgba := sourcebackend.Generate(suite.reader(webcam, suite.groups[1], frame.Color), 1)
	suite.Equal(frame.Rgba8, rgba.Bitmap.Format)
	suite.NotEqual(f.CoordinateSystem.ID(), rgba.CoordinateSystem.ID())
}

func (suite *SyntheticBackendTestSuite) TestDepthFramesHaveBlindColumnsAndPlane() {
	c := suite.capture(suite.groups[0])
	f := sourcebackend.Generate(suite.reader(c, suite.groups[0], frame.Depth), 1)

	suite.Equal(frame.Gray16, f.Bitmap.Format)
	suite.Equal(0.001, f.DepthScale)

	row := f.Bitmap.Row(0)
	suite.Equal(uint16(0), binary.LittleEndian.Uint16(row[0:]))
	far := float64(binary.LittleEndian.Uint16(row[(f.Bitmap.Width-1)*2:])) * f.DepthScale
	suite.InDelta(4.5, far, 0.01)
}

func (suite *SyntheticBackendTestSuite) TestDepthMapperCorrelatesOnlyWithOwnColorCamera() {
	c := suite.capture(suite.groups[0])
	color := sourcebackend.Generate(suite.reader(c, suite.groups[0], frame.Color), 1)
	depth := sourcebackend.Generate(suite.reader(c, suite.groups[0], frame.Depth), 1)

	_, ok := depth.Mapper.TryCreateCoordinateMapper(color.Intrinsics, frame.NewCoordinateSystem())
	suite.False(ok)
	_, ok = depth.Mapper.TryCreateCoordinateMapper(nil, color.CoordinateSystem)
	suite.False(ok)

	mapper, ok := depth.Mapper.TryCreateCoordinateMapper(color.Intrinsics, color.CoordinateSystem)
	suite.Require().True(ok)

	// colour (0,0) lands in the blind columns, the far right edge on the far plane
	src := []r2.Point{{X: 0, Y: 0}, {X: 62, Y: 0}}
	dst := make([]r3.Vector, len(src))
	suite.Require().NoError(mapper.UnprojectPoints(src, color.CoordinateSystem, dst))

	suite.Equal(r3.Vector{}, dst[0])
	suite.Greater(dst[1].Z, 4.0)
	suite.Greater(dst[1].X, 0.0)
}

func TestUncorrelatedGroupNeverCreatesMapper(t *testing.T) {
	groups := testGroups()
	groups[0].Correlated = false

	backend := sourcebackend.Synthetic(groups)
	found, err := backend.FindAllGroups(context.Background())
	require.NoError(t, err)
	c, err := backend.InitializeCapture(context.Background(), found[0])
	require.NoError(t, err)
	defer c.Close()

	colorInfo, _ := found[0].Find(frame.Color)
	depthInfo, _ := found[0].Find(frame.Depth)
	cr, err := c.CreateReader(context.Background(), colorInfo.ID)
	require.NoError(t, err)
	dr, err := c.CreateReader(context.Background(), depthInfo.ID)
	require.NoError(t, err)

	color := sourcebackend.Generate(cr, 1)
	depth := sourcebackend.Generate(dr, 1)
	_, ok := depth.Mapper.TryCreateCoordinateMapper(color.Intrinsics, color.CoordinateSystem)
	assert.False(t, ok)
}
