package roles

import (
	"context"
	"net/http"
	"testing"

	"github.com/Financial-Times/go-logger"
	"github.com/stretchr/testify/suite"
	"gopkg.in/jarcoal/httpmock.v1"
)

func init() {
	logger.InitDefaultLogger("test")
}

type RolesClientTestSuite struct {
	suite.Suite
	client *RegistryClient
}

func (suite *RolesClientTestSuite) SetupTest() {
	httpmock.Reset()
	client, err := NewClient("http://localhost/enhetsregisteret/api")
	suite.Nil(err)
	suite.client = client.(*RegistryClient)
}

func jsonResponder(status int, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(status, body)
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	}
}

func (suite *RolesClientTestSuite) TestGetRoleDocument_FirstEndpointWins() {
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/enheter/918654062/roller",
		jsonResponder(200, `{"rollegrupper":[]}`),
	)

	doc, err := suite.client.GetRoleDocument(context.Background(), "918654062")
	suite.Nil(err)
	suite.NotNil(doc)
}

func (suite *RolesClientTestSuite) TestGetRoleDocument_FallsBackAcrossVariants() {
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/enheter/918654062/roller",
		jsonResponder(404, `{}`),
	)
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/roller/organisasjonsnummer/918654062",
		jsonResponder(200, `{"roller":[{"navn":"Kari Nordmann","rolle":"LEDER"}]}`),
	)

	doc, err := suite.client.GetRoleDocument(context.Background(), "918654062")
	suite.Nil(err)
	suite.Len(Extract(doc), 1)
}

func (suite *RolesClientTestSuite) TestGetRoleDocument_SkipsNonJSONResponses() {
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/enheter/918654062/roller",
		httpmock.NewStringResponder(200, `<html>moved</html>`),
	)
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/roller/organisasjonsnummer/918654062",
		jsonResponder(200, `{"roller":[]}`),
	)

	doc, err := suite.client.GetRoleDocument(context.Background(), "918654062")
	suite.Nil(err)
	suite.NotNil(doc)
}

func (suite *RolesClientTestSuite) TestGetRoleDocument_AllVariantsFail() {
	doc, err := suite.client.GetRoleDocument(context.Background(), "918654062")
	suite.Nil(doc)
	suite.Equal(ErrNotFound, err)
}

func (suite *RolesClientTestSuite) TestGetRoleDocument_UnparsableJSONFallsThrough() {
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/enheter/918654062/roller",
		jsonResponder(200, `...`),
	)

	doc, err := suite.client.GetRoleDocument(context.Background(), "918654062")
	suite.Nil(doc)
	suite.Equal(ErrNotFound, err)
}

func (suite *RolesClientTestSuite) TestCheckHealth_Success() {
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/roller/rolletyper",
		jsonResponder(200, `{}`),
	)

	status, err := suite.client.Healthcheck().Checker()
	suite.Nil(err)
	suite.Equal("", status)
}

func (suite *RolesClientTestSuite) TestCheckHealth_FailsOnNon200() {
	httpmock.RegisterResponder(
		"GET",
		"http://localhost/enhetsregisteret/api/roller/rolletyper",
		jsonResponder(500, `{}`),
	)

	status, err := suite.client.Healthcheck().Checker()
	suite.NotNil(err)
	suite.Contains(status, "bad status")
}

func (suite *RolesClientTestSuite) TestCheckHealth_FailsOnClientErr() {
	status, err := suite.client.Healthcheck().Checker()
	suite.NotNil(err)
	suite.Contains(status, "failed to reach")
}

func TestRolesClientTestSuite(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	suite.Run(t, new(RolesClientTestSuite))
}
