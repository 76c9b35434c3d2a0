package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gobuffalo/nulls"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.dir, "config.json")
	suite.Require().Nil(os.WriteFile(path, []byte(content), 0600), "should write config file")
	return path
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	path := suite.writeConfig(`{
		"serve_addr": ":9999",
		"court_count": 8,
		"tick_rate": 30,
		"grace_period_s": 10,
		"mqtt_addr": "tcp://localhost:1883",
		"log": {
			"stdout_log_level": "debug",
			"high_priority_output": "/var/log/pitchpong/error.log"
		}
	}`)
	config, err := LoadConfig(path)
	suite.Require().Nilf(err, "load should not fail but got: %s", errors.Prettify(err))
	suite.Assert().Equal(":9999", config.ServeAddr, "should keep serve address")
	suite.Assert().Equal(8, config.CourtCount, "should keep court count")
	suite.Assert().Equal(30, config.TickRate, "should keep tick rate")
	suite.Assert().Equal(10, config.GracePeriodS, "should keep grace period")
	suite.Assert().Equal(nulls.NewString("tcp://localhost:1883"), config.MQTTAddr, "should keep mqtt address")
	suite.Assert().True(config.Log.HighPriorityOutput.Valid, "should keep log output")
}

func (suite *ConfigTestSuite) TestLoadConfigDefaults() {
	path := suite.writeConfig(`{}`)
	config, err := LoadConfig(path)
	suite.Require().Nilf(err, "load should not fail but got: %s", errors.Prettify(err))
	suite.Assert().Equal(defaultServeAddr, config.ServeAddr, "should default serve address")
	suite.Assert().Equal(defaultCourtCount, config.CourtCount, "should default court count")
	suite.Assert().Equal(defaultTickRate, config.TickRate, "should default tick rate")
	suite.Assert().Equal(defaultGracePeriodS, config.GracePeriodS, "should default grace period")
	suite.Assert().False(config.MQTTAddr.Valid, "mqtt should stay disabled by default")
	suite.Assert().Equal(defaultLogMaxSize, config.Log.MaxSize, "should default log max size")
	suite.Assert().Equal(defaultLogKeepDays, config.Log.KeepDays, "should default log keep days")
}

func (suite *ConfigTestSuite) TestLoadConfigMissingFile() {
	_, err := LoadConfig(filepath.Join(suite.dir, "nope.json"))
	suite.Assert().NotNil(err, "missing file should fail")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidJSON() {
	path := suite.writeConfig(`{oh no`)
	_, err := LoadConfig(path)
	suite.Assert().NotNil(err, "invalid json should fail")
}

func (suite *ConfigTestSuite) TestValidateConfig() {
	valid := Config{
		ServeAddr:    ":8080",
		CourtCount:   4,
		TickRate:     60,
		GracePeriodS: 7,
	}
	suite.Assert().Nil(ValidateConfig(valid), "valid config should pass")
	noAddr := valid
	noAddr.ServeAddr = ""
	suite.Assert().NotNil(ValidateConfig(noAddr), "missing serve address should fail")
	noCourts := valid
	noCourts.CourtCount = 0
	suite.Assert().NotNil(ValidateConfig(noCourts), "court count below one should fail")
	noTicks := valid
	noTicks.TickRate = -1
	suite.Assert().NotNil(ValidateConfig(noTicks), "tick rate below one should fail")
	noGrace := valid
	noGrace.GracePeriodS = 0
	suite.Assert().NotNil(ValidateConfig(noGrace), "grace period below one should fail")
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
