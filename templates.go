package imcp

import "github.com/qseries/ibmi-mcp/internal/rewrite"

// Statement templates for the registry tools. Each is a parameterized
// read-only statement against the IBM i SQL catalogs and services; the
// {{LIMIT}} slot is filled by the rewriter in the form the connected server
// generation accepts. Templates with a RequiredService fall back to a
// legacy equivalent when the service is absent on the connected server.

var tplSystemStatus = &rewrite.Template{
	ID:   "system-status",
	Text: "SELECT * FROM TABLE(QSYS2.SYSTEM_STATUS(RESET_STATISTICS => 'NO', DETAILED_INFO => 'ALL')) X",
}

var tplSystemActivity = &rewrite.Template{
	ID:   "system-activity",
	Text: "SELECT * FROM TABLE(QSYS2.SYSTEM_ACTIVITY_INFO())",
}

var tplTopCPUJobs = &rewrite.Template{
	ID: "top-cpu-jobs",
	Text: `SELECT JOB_NAME,
       AUTHORIZATION_NAME AS USER_NAME,
       SUBSYSTEM,
       JOB_STATUS,
       JOB_TYPE,
       CPU_TIME,
       TEMPORARY_STORAGE,
       TOTAL_DISK_IO_COUNT,
       TOTAL_DISK_IO_TIME,
       SQL_STATEMENT_TEXT
FROM TABLE(
  QSYS2.ACTIVE_JOB_INFO(
    SUBSYSTEM_LIST_FILTER => ?,
    CURRENT_USER_LIST_FILTER => ?,
    DETAILED_INFO => 'ALL'
  )
) X
ORDER BY CPU_TIME DESC
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "ACTIVE_JOB_INFO",
	Hint:            "DETAILED_INFO => 'ALL' needs a current ACTIVE_JOB_INFO; the fallback returns the base columns without SQL statement text or disk I/O counters",
	Fallback: &rewrite.Template{
		ID:   "top-cpu-jobs-basic",
		Text: "SELECT JOB_NAME, AUTHORIZATION_NAME AS USER_NAME, SUBSYSTEM, JOB_STATUS, JOB_TYPE, CPU_TIME, TEMPORARY_STORAGE, FUNCTION FROM TABLE(QSYS2.ACTIVE_JOB_INFO(SUBSYSTEM_LIST_FILTER => ?, CURRENT_USER_LIST_FILTER => ?)) X ORDER BY CPU_TIME DESC {{LIMIT}}",
	},
}

var tplMsgwJobs = &rewrite.Template{
	ID: "jobs-in-msgw",
	Text: `SELECT JOB_NAME,
       AUTHORIZATION_NAME AS USER_NAME,
       SUBSYSTEM,
       FUNCTION,
       JOB_STATUS,
       CPU_TIME,
       MESSAGE_ID,
       MESSAGE_TEXT
FROM TABLE(QSYS2.ACTIVE_JOB_INFO(DETAILED_INFO => 'ALL')) X
WHERE JOB_STATUS = 'MSGW'
ORDER BY SUBSYSTEM, CPU_TIME DESC
{{LIMIT}}`,
}

var tplASPInfo = &rewrite.Template{
	ID:   "asp-info",
	Text: "SELECT * FROM QSYS2.ASP_INFO ORDER BY ASP_NUMBER",
}

var tplSubsystemPools = &rewrite.Template{
	ID: "subsystem-pool-info",
	Text: `SELECT SUBSYSTEM_DESCRIPTION_LIBRARY,
       SUBSYSTEM_DESCRIPTION,
       POOL_ID,
       POOL_NAME,
       DEFINED_SIZE,
       CURRENT_SIZE,
       ACTIVITY_LEVEL,
       PAGING_OPTION
FROM QSYS2.SUBSYSTEM_POOL_INFO
ORDER BY SUBSYSTEM_DESCRIPTION, POOL_ID
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "SUBSYSTEM_POOL_INFO",
	Hint:            "QSYS2.SUBSYSTEM_POOL_INFO needs IBM i 7.3 or later",
}

var tplDiskHotspots = &rewrite.Template{
	ID: "disk-hotspots",
	Text: `SELECT ASP_NUMBER,
       RESOURCE_NAME,
       SERIAL_NUMBER,
       HARDWARE_STATUS,
       RESOURCE_STATUS,
       PERCENT_USED,
       UNIT_SPACE_AVAILABLE_GB,
       TOTAL_READ_REQUESTS,
       TOTAL_WRITE_REQUESTS
FROM QSYS2.SYSDISKSTAT
ORDER BY PERCENT_USED DESC
{{LIMIT}}`,
}

var tplNetstat = &rewrite.Template{
	ID: "netstat-snapshot",
	Text: `SELECT LOCAL_ADDRESS,
       LOCAL_PORT,
       REMOTE_ADDRESS,
       REMOTE_PORT,
       CONNECTION_STATE,
       IDLE_TIME
FROM QSYS2.NETSTAT_INFO
ORDER BY IDLE_TIME DESC
{{LIMIT}}`,
}

var tplQsysoprMessages = &rewrite.Template{
	ID: "qsysopr-messages",
	Text: `SELECT MSG_TIME,
       MSGID,
       MSG_TYPE,
       SEVERITY,
       CAST(MSG_TEXT AS VARCHAR(1024)) AS MSG_TEXT,
       FROM_USER,
       FROM_JOB,
       FROM_PGM
FROM QSYS2.MESSAGE_QUEUE_INFO
WHERE MSGQ_LIB = 'QSYS'
  AND MSGQ_NAME = 'QSYSOPR'
ORDER BY MSG_TIME DESC
{{LIMIT}}`,
}

var tplOutqHotspots = &rewrite.Template{
	ID: "output-queue-hotspots",
	Text: `SELECT OUTPUT_QUEUE_LIBRARY_NAME AS OUTQ_LIB,
       OUTPUT_QUEUE_NAME AS OUTQ,
       NUMBER_OF_FILES,
       OUTPUT_QUEUE_STATUS,
       NUMBER_OF_WRITERS
FROM QSYS2.OUTPUT_QUEUE_INFO
ORDER BY NUMBER_OF_FILES DESC
{{LIMIT}}`,
}

var tplEndedJobs = &rewrite.Template{
	ID: "ended-jobs",
	Text: `SELECT *
FROM TABLE(SYSTOOLS.ENDED_JOB_INFO())
ORDER BY END_TIMESTAMP DESC
{{LIMIT}}`,
	RequiredSchema:  "SYSTOOLS",
	RequiredService: "ENDED_JOB_INFO",
	Hint:            "SYSTOOLS.ENDED_JOB_INFO needs a recent Db2 PTF group; qsysopr-messages covers abnormal ends on older levels",
}

var tplJobQueueEntries = &rewrite.Template{
	ID: "job-queue-entries",
	Text: `SELECT *
FROM TABLE(SYSTOOLS.JOB_QUEUE_ENTRIES())
ORDER BY JOB_QUEUE_NAME, JOB_QUEUE_LIBRARY
{{LIMIT}}`,
	RequiredSchema:  "SYSTOOLS",
	RequiredService: "JOB_QUEUE_ENTRIES",
	Hint:            "SYSTOOLS.JOB_QUEUE_ENTRIES requires 7.5 TR3 or later",
	Fallback: &rewrite.Template{
		ID:   "job-queue-entries-legacy",
		Text: "SELECT JOB_QUEUE_LIBRARY, JOB_QUEUE_NAME, JOB_QUEUE_STATUS, SUBSYSTEM_LIBRARY_NAME, SUBSYSTEM_NAME, NUMBER_OF_JOBS, HELD_JOBS_ON_QUEUE, SCHEDULED_JOBS_ON_QUEUE, MAXIMUM_ACTIVE_JOBS FROM QSYS2.JOB_QUEUE_INFO ORDER BY NUMBER_OF_JOBS DESC {{LIMIT}}",
	},
}

var tplUserStorage = &rewrite.Template{
	ID: "user-storage-top",
	Text: `SELECT AUTHORIZATION_NAME,
       STORAGE_USED,
       TEMPORARY_STORAGE_USED,
       NUMBER_OF_OBJECTS
FROM QSYS2.USER_STORAGE
ORDER BY STORAGE_USED DESC
{{LIMIT}}`,
}

var tplIFSLargestObjects = &rewrite.Template{
	ID: "ifs-largest-objects",
	Text: `SELECT PATH_NAME,
       OBJECT_TYPE,
       DATA_SIZE,
       CREATE_TIMESTAMP,
       CHANGE_TIMESTAMP
FROM TABLE(QSYS2.IFS_OBJECT_STATISTICS(?)) X
ORDER BY DATA_SIZE DESC
{{LIMIT}}`,
}

var tplObjectsChanged = &rewrite.Template{
	ID: "objects-changed-recently",
	Text: `SELECT SYSTEM_OBJECT_SCHEMA,
       SYSTEM_OBJECT_NAME,
       OBJECT_TYPE,
       TEXT_DESCRIPTION,
       CREATE_TIMESTAMP,
       CHANGE_TIMESTAMP
FROM QSYS2.OBJECT_STATISTICS
WHERE CHANGE_TIMESTAMP >= (CURRENT_TIMESTAMP - ? DAYS)
ORDER BY CHANGE_TIMESTAMP DESC
{{LIMIT}}`,
}

var tplPTFsRequiringIPL = &rewrite.Template{
	ID: "ptfs-requiring-ipl",
	Text: `SELECT PTF_ID,
       PRODUCT_ID,
       PRODUCT_OPTION,
       PTF_STATUS,
       PTF_ACTION_REQUIRED,
       LOADED_TIMESTAMP
FROM QSYS2.PTF_INFO
WHERE PTF_ACTION_REQUIRED = 'IPL'
ORDER BY LOADED_TIMESTAMP DESC
{{LIMIT}}`,
}

var tplSoftwareProducts = &rewrite.Template{
	ID: "software-products",
	Text: `SELECT PRODUCT_ID,
       PRODUCT_OPTION,
       RELEASE_LEVEL,
       INSTALLED,
       LOAD_STATE,
       TEXT_DESCRIPTION
FROM QSYS2.SOFTWARE_PRODUCT_INFO
WHERE (? IS NULL OR PRODUCT_ID = ?)
ORDER BY PRODUCT_ID, PRODUCT_OPTION
{{LIMIT}}`,
}

var tplLicenseInfo = &rewrite.Template{
	ID: "license-info",
	Text: `SELECT *
FROM QSYS2.LICENSE_INFO
ORDER BY PRODUCT_ID
{{LIMIT}}`,
}

var tplServicesSearch = &rewrite.Template{
	ID: "search-sql-services",
	Text: `SELECT SERVICE_CATEGORY,
       SERVICE_SCHEMA_NAME,
       SERVICE_NAME,
       SQL_OBJECT_TYPE,
       EARLIEST_POSSIBLE_RELEASE
FROM QSYS2.SERVICES_INFO
WHERE (UPPER(SERVICE_NAME) LIKE UPPER(?) OR UPPER(SERVICE_CATEGORY) LIKE UPPER(?))
ORDER BY SERVICE_CATEGORY, SERVICE_SCHEMA_NAME, SERVICE_NAME
{{LIMIT}}`,
}

var tplUserProfiles = &rewrite.Template{
	ID: "list-user-profiles",
	Text: `SELECT *
FROM QSYS2.USER_INFO_BASIC
ORDER BY AUTHORIZATION_NAME
{{LIMIT}}`,
}

var tplPrivilegedProfiles = &rewrite.Template{
	ID: "list-privileged-profiles",
	Text: `SELECT AUTHORIZATION_NAME,
       STATUS,
       USER_CLASS_NAME,
       SPECIAL_AUTHORITIES,
       GROUP_PROFILE_NAME,
       OWNER,
       HOME_DIRECTORY,
       TEXT_DESCRIPTION,
       PASSWORD_CHANGE_DATE,
       INVALID_SIGNON_ATTEMPTS
FROM QSYS2.USER_INFO
ORDER BY AUTHORIZATION_NAME
{{LIMIT}}`,
}

var tplPublicAllObjects = &rewrite.Template{
	ID: "public-all-object-authority",
	Text: `SELECT *
FROM QSYS2.OBJECT_PRIVILEGES
WHERE AUTHORIZATION_NAME = '*PUBLIC'
  AND OBJECT_AUTHORITY = '*ALL'
ORDER BY SYSTEM_OBJECT_SCHEMA, SYSTEM_OBJECT_NAME, OBJECT_TYPE
{{LIMIT}}`,
}

var tplObjectPrivileges = &rewrite.Template{
	ID: "object-privileges",
	Text: `SELECT *
FROM QSYS2.OBJECT_PRIVILEGES
WHERE SYSTEM_OBJECT_SCHEMA = ?
  AND SYSTEM_OBJECT_NAME = ?
ORDER BY AUTHORIZATION_NAME
{{LIMIT}}`,
}

var tplAuthorizationLists = &rewrite.Template{
	ID: "authorization-lists",
	Text: `SELECT *
FROM QSYS2.AUTHORIZATION_LIST_INFO
ORDER BY AUTHORIZATION_LIST_LIBRARY, AUTHORIZATION_LIST_NAME
{{LIMIT}}`,
}

var tplAuthorizationListEntries = &rewrite.Template{
	ID: "authorization-list-entries",
	Text: `SELECT *
FROM QSYS2.AUTHORIZATION_LIST_ENTRIES
WHERE AUTHORIZATION_LIST_LIBRARY = ?
  AND AUTHORIZATION_LIST_NAME = ?
ORDER BY USER_PROFILE_NAME
{{LIMIT}}`,
}

var tplSecurityInfo = &rewrite.Template{
	ID:              "security-info",
	Text:            "SELECT * FROM QSYS2.SECURITY_INFO",
	RequiredSchema:  "QSYS2",
	RequiredService: "SECURITY_INFO",
	Hint:            "QSYS2.SECURITY_INFO needs IBM i 7.3 or later",
}

var tplUserMFASettings = &rewrite.Template{
	ID: "user-mfa-settings",
	Text: `SELECT AUTHORIZATION_NAME,
       TOTP_AUTHENTICATION_LEVEL,
       TOTP_KEY_STATUS,
       TOTP_KEY_GENERATION_TIMESTAMP
FROM QSYS2.USER_INFO
WHERE ? = '*ALL' OR AUTHORIZATION_NAME = ?
ORDER BY AUTHORIZATION_NAME
{{LIMIT}}`,
}

var tplCertificateExpiry = &rewrite.Template{
	ID: "certificate-info-expiring",
	Text: `SELECT CERTIFICATE_LABEL,
       VALIDITY_START,
       VALIDITY_END,
       KEY_SIZE,
       SUBJECT_COMMON_NAME,
       ISSUER_COMMON_NAME,
       SERIAL_NUMBER
FROM TABLE(
  QSYS2.CERTIFICATE_INFO(
    CERTIFICATE_STORE_PASSWORD => '*NOPWD',
    CERTIFICATE_STORE => '*SYSTEM'
  )
) X
WHERE VALIDITY_END <= CURRENT_TIMESTAMP + ? DAYS
ORDER BY VALIDITY_END
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "CERTIFICATE_INFO",
	Hint:            "QSYS2.CERTIFICATE_INFO needs IBM i 7.3 with current PTFs plus *ALLOBJ or *SECADM authority",
}

var tplPlanCacheTop = &rewrite.Template{
	ID: "plan-cache-top",
	Text: `SELECT *
FROM QSYS2.PLAN_CACHE_STATEMENT
ORDER BY TOTAL_ELAPSED_TIME DESC
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "PLAN_CACHE_STATEMENT",
	Hint:            "PLAN_CACHE_STATEMENT needs 7.5 TR2 or later; the fallback shows currently running SQE queries instead of plan cache history",
	Fallback: &rewrite.Template{
		ID:              "plan-cache-top-legacy",
		Text:            "SELECT JOB_NAME, LIBRARY_NAME, FILE_NAME, QUERY_TYPE, CURRENT_RUNTIME, CURRENT_TEMPORARY_STORAGE, CURRENT_DATABASE_READS, CURRENT_ROW_COUNT FROM TABLE(QSYS2.ACTIVE_QUERY_INFO()) X ORDER BY CURRENT_RUNTIME DESC {{LIMIT}}",
		RequiredSchema:  "QSYS2",
		RequiredService: "ACTIVE_QUERY_INFO",
	},
}

var tplPlanCacheErrors = &rewrite.Template{
	ID: "plan-cache-errors",
	Text: `SELECT *
FROM QSYS2.PLAN_CACHE_STATEMENT
WHERE STATEMENT_TEXT IS NOT NULL
  AND (TOTAL_ERROR_COUNT > 0 OR TOTAL_WARNING_COUNT > 0)
ORDER BY TOTAL_ERROR_COUNT DESC, TOTAL_WARNING_COUNT DESC
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "PLAN_CACHE_STATEMENT",
	Hint:            "PLAN_CACHE_STATEMENT needs 7.5 TR2 or later; the fallback scans job logs for SQL and CPF diagnostics",
	Fallback: &rewrite.Template{
		ID:              "plan-cache-errors-legacy",
		Text:            "SELECT JOB_NAME, MESSAGE_ID, MESSAGE_TYPE, MESSAGE_TIMESTAMP, CAST(MESSAGE_TEXT AS VARCHAR(500)) AS MESSAGE_TEXT FROM TABLE(QSYS2.JOBLOG_INFO('*')) WHERE MESSAGE_ID LIKE 'SQL%' OR MESSAGE_ID LIKE 'CPF%' ORDER BY MESSAGE_TIMESTAMP DESC {{LIMIT}}",
		RequiredSchema:  "QSYS2",
		RequiredService: "JOBLOG_INFO",
	},
}

var tplIndexAdvice = &rewrite.Template{
	ID: "index-advice",
	Text: `SELECT *
FROM QSYS2.INDEX_ADVICE
ORDER BY ESTIMATED_TIME_SAVINGS DESC
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "INDEX_ADVICE",
	Hint:            "INDEX_ADVICE view needs 7.5 TR1 or later; SYSIXADV carries the same advice on earlier levels",
	Fallback: &rewrite.Template{
		ID:              "index-advice-legacy",
		Text:            "SELECT TABLE_SCHEMA, TABLE_NAME, SYSTEM_TABLE_NAME, TIMES_ADVISED, KEY_COLUMNS_ADVISED, LAST_ADVISED, REASON_ADVISED, AVERAGE_QUERY_ESTIMATE_MICRO FROM QSYS2.SYSIXADV ORDER BY TIMES_ADVISED DESC {{LIMIT}}",
		RequiredSchema:  "QSYS2",
		RequiredService: "SYSIXADV",
	},
}

var tplLockWaits = &rewrite.Template{
	ID: "lock-waits",
	Text: `SELECT *
FROM QSYS2.LOCK_WAITS
ORDER BY WAIT_DURATION DESC
{{LIMIT}}`,
	RequiredSchema:  "QSYS2",
	RequiredService: "LOCK_WAITS",
	Hint:            "LOCK_WAITS view needs 7.5 TR3 or later; the fallback lists waiting holders from OBJECT_LOCK_INFO",
	Fallback: &rewrite.Template{
		ID:              "lock-waits-legacy",
		Text:            "SELECT OBJECT_SCHEMA, OBJECT_NAME, OBJECT_TYPE, LOCK_STATE, LOCK_STATUS, LOCK_SCOPE, JOB_NAME, LOCK_OBJECT_TYPE FROM QSYS2.OBJECT_LOCK_INFO WHERE LOCK_STATUS = 'WAITING' {{LIMIT}}",
		RequiredSchema:  "QSYS2",
		RequiredService: "OBJECT_LOCK_INFO",
	},
}

var tplJournals = &rewrite.Template{
	ID: "journals",
	Text: `SELECT *
FROM QSYS2.JOURNAL_INFO
ORDER BY JOURNAL_LIBRARY, JOURNAL_NAME
{{LIMIT}}`,
}

var tplJournalReceivers = &rewrite.Template{
	ID: "journal-receivers",
	Text: `SELECT *
FROM QSYS2.JOURNAL_RECEIVER_INFO
ORDER BY JOURNAL_LIBRARY, JOURNAL_NAME, RECEIVER_ATTACH_TIMESTAMP DESC
{{LIMIT}}`,
}

var tplLargestObjects = &rewrite.Template{
	ID: "largest-objects",
	Text: `SELECT OBJLONGSCHEMA AS LIBRARY,
       OBJNAME AS OBJECT,
       OBJTYPE,
       OBJSIZE,
       LAST_USED_TIMESTAMP
FROM TABLE(QSYS2.OBJECT_STATISTICS(?, '*ALL')) X
ORDER BY OBJSIZE DESC
{{LIMIT}}`,
}

var tplLibrarySizesAll = &rewrite.Template{
	ID: "library-sizes",
	Text: `WITH libs (ln) AS (
  SELECT OBJNAME
  FROM TABLE(QSYS2.OBJECT_STATISTICS('*ALLSIMPLE', 'LIB')) AS L
)
SELECT
  ln AS LIBRARY,
  LI.OBJECT_COUNT,
  LI.LIBRARY_SIZE AS LIBRARY_SIZE_BYTES,
  ROUND(LI.LIBRARY_SIZE / 1e+9, 2) AS LIBRARY_SIZE_GB,
  LI.LIBRARY_SIZE_COMPLETE,
  LI.LIBRARY_TYPE,
  LI.TEXT_DESCRIPTION,
  LI.IASP_NAME,
  LI.IASP_NUMBER
FROM libs,
LATERAL (
  SELECT *
  FROM TABLE(
    QSYS2.LIBRARY_INFO(
      LIBRARY_NAME => ln,
      DETAILED_INFO => 'LIBRARY_SIZE'
    )
  )
) LI
ORDER BY LI.LIBRARY_SIZE DESC
{{LIMIT}}`,
}

var tplLibrarySizesExclSystem = &rewrite.Template{
	ID: "library-sizes-excl-system",
	Text: `WITH libs (ln) AS (
  SELECT OBJNAME
  FROM TABLE(QSYS2.OBJECT_STATISTICS('*ALLSIMPLE', 'LIB')) AS L
  WHERE LEFT(OBJNAME, 1) NOT IN ('Q', '#')
)
SELECT
  ln AS LIBRARY,
  LI.OBJECT_COUNT,
  LI.LIBRARY_SIZE AS LIBRARY_SIZE_BYTES,
  ROUND(LI.LIBRARY_SIZE / 1e+9, 2) AS LIBRARY_SIZE_GB,
  LI.LIBRARY_SIZE_COMPLETE,
  LI.LIBRARY_TYPE,
  LI.TEXT_DESCRIPTION,
  LI.IASP_NAME,
  LI.IASP_NUMBER
FROM libs,
LATERAL (
  SELECT *
  FROM TABLE(
    QSYS2.LIBRARY_INFO(
      LIBRARY_NAME => ln,
      DETAILED_INFO => 'LIBRARY_SIZE'
    )
  )
) LI
ORDER BY LI.LIBRARY_SIZE DESC
{{LIMIT}}`,
}

var tplTablesInSchema = &rewrite.Template{
	ID: "list-tables-in-schema",
	Text: `SELECT TABLE_SCHEMA,
       TABLE_NAME,
       TABLE_TYPE,
       TABLE_TEXT,
       LAST_ALTERED_TIMESTAMP
FROM QSYS2.SYSTABLES
WHERE TABLE_SCHEMA = ?
ORDER BY TABLE_NAME
{{LIMIT}}`,
}

var tplColumnsForTable = &rewrite.Template{
	ID: "describe-table",
	Text: `SELECT TABLE_SCHEMA,
       TABLE_NAME,
       COLUMN_NAME,
       DATA_TYPE,
       LENGTH,
       NUMERIC_SCALE,
       IS_NULLABLE,
       COLUMN_TEXT
FROM QSYS2.SYSCOLUMNS
WHERE TABLE_SCHEMA = ?
  AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION
{{LIMIT}}`,
}

var tplRoutinesInSchema = &rewrite.Template{
	ID: "list-routines-in-schema",
	Text: `SELECT ROUTINE_SCHEMA,
       ROUTINE_NAME,
       ROUTINE_TYPE,
       SPECIFIC_NAME,
       CREATED,
       LAST_ALTERED,
       ROUTINE_DEFINITION
FROM QSYS2.SYSROUTINES
WHERE ROUTINE_SCHEMA = ?
ORDER BY ROUTINE_NAME
{{LIMIT}}`,
}

var tplSystemValues = &rewrite.Template{
	ID:   "system-values",
	Text: "SELECT SYSTEM_VALUE_NAME, CURRENT_NUMERIC_VALUE, CURRENT_CHARACTER_VALUE, TEXT_DESCRIPTION FROM QSYS2.SYSTEM_VALUE_INFO WHERE (? = '*ALL' OR SYSTEM_VALUE_NAME LIKE ?) ORDER BY SYSTEM_VALUE_NAME {{LIMIT}}",
}

var tplCountUserTableRows = &rewrite.Template{
	ID:   "count-user-table-rows",
	Text: "SELECT NUMBER_ROWS, NUMBER_DELETED_ROWS, DATA_SIZE FROM QSYS2.SYSTABLESTAT WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?",
}

var tplLogPerformanceMetrics = &rewrite.Template{
	ID:   "log-performance-metrics",
	Text: "INSERT INTO SAMPLE.METRICS (TS, CPU_PCT, ASP_PCT) VALUES (CURRENT_TIMESTAMP, ?, ?)",
}
