package efd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lsst-sqre/efd-client-go/auth"
	"github.com/lsst-sqre/efd-client-go/dataframe"
	"github.com/lsst-sqre/efd-client-go/influx"
	"github.com/lsst-sqre/efd-client-go/schema"
	"github.com/lsst-sqre/efd-client-go/timescale"
)

// DefaultDatabase is the database name used by every known EFD deployment.
const DefaultDatabase = "efd"

const defaultQueryTimeout = 900 * time.Second

// Executor runs InfluxQL queries on behalf of a Client. The production
// executor is the influx package; tests substitute a fake.
type Executor interface {
	Query(ctx context.Context, query string) (*dataframe.DataFrame, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config carries the optional settings for Connect. The zero value selects
// the public credential service, the standard database name, and a
// discarding logger.
type Config struct {
	// Database overrides the database queried. Empty means
	// DefaultDatabase.
	Database string

	// CredsService overrides the credential service endpoint. Empty means
	// auth.DefaultService.
	CredsService string

	// CredsFile selects a local credentials file instead of the
	// credential service. Empty with CredsEnvVar also empty means the
	// service is used.
	CredsFile string

	// CredsEnvVar names an environment variable whose value, when set,
	// overrides CredsFile. Setting it alone also selects file mode, with
	// the conventional default path as fallback.
	CredsEnvVar string

	// Timeout bounds each query round trip. Zero means 900 seconds, which
	// accommodates range queries over long windows.
	Timeout time.Duration

	// Logger receives structured connection and query logs. Nil discards
	// them.
	Logger *slog.Logger

	// SchemaRegistryURL overrides the schema registry endpoint that the
	// credential service reports for the deployment.
	SchemaRegistryURL string

	// Executor substitutes the query backend. When set, Connect skips the
	// credential lookup and health check entirely.
	Executor Executor
}

func (c Config) withDefaults() Config {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultQueryTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Client queries one EFD deployment and reshapes results into dataframes.
//
// Thread Safety: all methods are safe for concurrent use from multiple
// goroutines.
type Client struct {
	name   string
	connID string
	db     string
	exec   Executor
	log    *slog.Logger

	// registry is nil when neither the credential service nor the config
	// supplied a schema registry URL.
	registry *schema.Client

	mu      sync.Mutex
	history []string
}

// Connect resolves the named deployment's credentials, verifies the
// deployment is healthy, and dials it. Credentials come from the
// credential service, or from a local file when CredsFile or CredsEnvVar
// is set.
//
// Parameters:
//   - ctx: Context bounding credential lookup and the connection check
//   - efdName: Deployment name as known to the credential service,
//     e.g. "usdf_efd"
//   - cfg: Optional settings; the zero value is valid
//
// Returns:
//   - *Client: Connected client ready for queries
//   - error: If credentials cannot be fetched or the deployment is
//     unreachable
func Connect(ctx context.Context, efdName string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	client := &Client{
		name:   efdName,
		connID: uuid.NewString(),
		db:     cfg.Database,
	}
	client.log = cfg.Logger.With("efd", efdName, "conn_id", client.connID)

	registryURL := cfg.SchemaRegistryURL

	if cfg.Executor != nil {
		client.exec = cfg.Executor
	} else {
		creds, err := resolveCredentials(ctx, efdName, cfg)
		if err != nil {
			return nil, err
		}

		addr := fmt.Sprintf("https://%s:%s%s", creds.Host, creds.Port, creds.Path)
		if err := influx.Health(ctx, addr); err != nil {
			return nil, err
		}

		exec, err := influx.Connect(ctx, influx.Config{
			Addr:     addr,
			Database: cfg.Database,
			Username: creds.Username,
			Password: creds.Password,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		client.exec = exec

		if registryURL == "" {
			registryURL = creds.SchemaRegistryURL
		}
		client.log.Info("connected", "addr", addr, "database", cfg.Database)
	}

	if registryURL != "" {
		client.registry = schema.NewClient(registryURL)
	}
	return client, nil
}

// resolveCredentials fetches the deployment's connection tuple. A
// configured credentials file (or file environment variable) takes
// precedence over the credential service.
func resolveCredentials(ctx context.Context, efdName string, cfg Config) (auth.Credentials, error) {
	if cfg.CredsFile != "" || cfg.CredsEnvVar != "" {
		provider, err := auth.NewFileProvider(cfg.CredsFile, cfg.CredsEnvVar)
		if err != nil {
			return auth.Credentials{}, err
		}
		return provider.GetAuth(efdName)
	}
	return auth.NewServiceClient(cfg.CredsService).GetAuth(ctx, efdName)
}

// Name returns the deployment name this client is connected to.
func (c *Client) Name() string { return c.name }

// ConnectionID returns the unique identifier assigned to this connection.
func (c *Client) ConnectionID() string { return c.connID }

// doQuery records the query, executes it, and optionally converts a
// TAI-stored index back to UTC so callers always see UTC timestamps.
func (c *Client) doQuery(ctx context.Context, query string, convertIndex bool) (*dataframe.DataFrame, error) {
	c.mu.Lock()
	c.history = append(c.history, query)
	c.mu.Unlock()

	c.log.Debug("query", "influxql", query)
	frame, err := c.exec.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	if convertIndex && !frame.IsEmpty() {
		index := frame.Index()
		for i, t := range index {
			index[i] = timescale.New(t, timescale.TAI).UTC().Std()
		}
		return frame.WithIndex(index)
	}
	return frame, nil
}

// checkEmptyResult distinguishes a valid empty result from a typo in the
// topic name. An unknown topic is an error; a known topic with no rows in
// range returns the empty frame unchanged.
func (c *Client) checkEmptyResult(ctx context.Context, frame *dataframe.DataFrame, topicName string) (*dataframe.DataFrame, error) {
	if !frame.IsEmpty() {
		return frame, nil
	}
	topics, err := c.GetTopics(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range topics {
		if t == topicName {
			return frame, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topicName)
}

// GetTopics returns the topic names present in the database.
func (c *Client) GetTopics(ctx context.Context) ([]string, error) {
	frame, err := c.doQuery(ctx, "SHOW MEASUREMENTS", false)
	if err != nil {
		return nil, err
	}
	return stringColumn(frame, "name")
}

// GetFields returns the field names of a topic.
func (c *Client) GetFields(ctx context.Context, topicName string) ([]string, error) {
	query := fmt.Sprintf(`SHOW FIELD KEYS FROM "%s"."autogen"."%s"`, c.db, topicName)
	frame, err := c.doQuery(ctx, query, false)
	if err != nil {
		return nil, err
	}
	if frame.IsEmpty() {
		if _, err := c.checkEmptyResult(ctx, frame, topicName); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return stringColumn(frame, "fieldKey")
}

// stringColumn extracts a column of strings, skipping non-string values.
func stringColumn(frame *dataframe.DataFrame, name string) ([]string, error) {
	col, ok := frame.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	out := make([]string, 0, len(col.Values))
	for _, v := range col.Values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// SelectTimeSeries queries fields of a topic over a time range.
//
// end is either an absolute timescale.Time or a time.Duration from start;
// see BuildTimeRangeQuery for the range semantics and QueryOptions for
// index filtering and TAI handling. An empty result for a known topic is an
// empty frame; an unknown topic is ErrUnknownTopic.
func (c *Client) SelectTimeSeries(ctx context.Context, topicName string, fields []string, start timescale.Time, end any, opts QueryOptions) (*dataframe.DataFrame, error) {
	query, err := BuildTimeRangeQuery(c.db, topicName, fields, start, end, opts)
	if err != nil {
		return nil, err
	}
	frame, err := c.doQuery(ctx, query, opts.ConvertInfluxIndex)
	if err != nil {
		return nil, err
	}
	return c.checkEmptyResult(ctx, frame, topicName)
}

// SelectTopN returns the num most recent rows of a topic, optionally
// bounded above by timeCut (zero for no bound) and filtered by opts.Index.
func (c *Client) SelectTopN(ctx context.Context, topicName string, fields []string, num int, timeCut timescale.Time, opts QueryOptions) (*dataframe.DataFrame, error) {
	query, err := BuildSelectTopNQuery(c.db, topicName, fields, num, timeCut, opts)
	if err != nil {
		return nil, err
	}
	frame, err := c.doQuery(ctx, query, opts.ConvertInfluxIndex)
	if err != nil {
		return nil, err
	}
	return c.checkEmptyResult(ctx, frame, topicName)
}

// SelectPackedTimeSeries queries the packed vector members of the base
// fields over a time range and unpacks them into a long-format frame, one
// row per (raw row x vector element). See MergePackedTimeSeries for the
// timestamp synthesis.
func (c *Client) SelectPackedTimeSeries(ctx context.Context, topicName string, baseFields []string, start timescale.Time, end any, opts QueryOptions, popts PackedOptions) (*dataframe.DataFrame, error) {
	popts = popts.withDefaults()

	available, err := c.GetFields(ctx, topicName)
	if err != nil {
		return nil, err
	}
	fields, err := MakeFields(available, baseFields)
	if err != nil {
		return nil, err
	}
	fields = appendMissing(fields, popts.RefTimestampCol)

	packed, err := c.SelectTimeSeries(ctx, topicName, fields, start, end, opts)
	if err != nil {
		return nil, err
	}
	if packed.IsEmpty() {
		return packed, nil
	}
	return CombinePackedTimeSeries(packed, baseFields, popts)
}

// SelectPackedPSD queries packed power-spectral-density rows for the named
// sensors over a time range and unpacks them into a long-format frame of
// (sensor, frequency, value) rows. See MergePackedPSD for the bin and
// offset semantics.
func (c *Client) SelectPackedPSD(ctx context.Context, topicName string, baseFields, sensorNames []string, start timescale.Time, end any, opts QueryOptions, popts PSDOptions) (*dataframe.DataFrame, error) {
	popts = popts.withDefaults()

	available, err := c.GetFields(ctx, topicName)
	if err != nil {
		return nil, err
	}
	fields, err := MakeFields(available, baseFields)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{popts.SensorNameCol, popts.MinFreqCol, popts.MaxFreqCol, popts.NumPointsCol} {
		fields = appendMissing(fields, col)
	}

	packed, err := c.SelectTimeSeries(ctx, topicName, fields, start, end, opts)
	if err != nil {
		return nil, err
	}
	if packed.IsEmpty() {
		return packed, nil
	}
	return MergePackedPSD(packed, baseFields, sensorNames, popts)
}

// GetSchema returns the registered schema for a topic, including per-field
// descriptions and units. It requires the deployment to expose a schema
// registry.
func (c *Client) GetSchema(ctx context.Context, topicName string) (*schema.Schema, error) {
	if c.registry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSchemaRegistry, c.name)
	}
	return c.registry.TopicSchema(ctx, topicName)
}

// QueryHistory returns the InfluxQL statements this client has executed, in
// order.
func (c *Client) QueryHistory() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Ping verifies the deployment still responds.
func (c *Client) Ping(ctx context.Context) error {
	return c.exec.Ping(ctx)
}

// Close releases the underlying connection. The client cannot be reused.
func (c *Client) Close() error {
	c.log.Info("closing connection")
	return c.exec.Close()
}

// appendMissing appends name unless already present.
func appendMissing(fields []string, name string) []string {
	for _, f := range fields {
		if f == name {
			return fields
		}
	}
	return append(fields, name)
}
