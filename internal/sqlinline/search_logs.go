package sqlinline

const QListSearchLogs = `--sql 16d36327-dbfb-457c-9e23-d9f75d621d14
select id::text, blood_type, latitude::float8, longitude::float8, radius_km::float8,
       results_count, coalesce(client_ip, ''), searched_at
from public.search_logs
where ($1::text = '' or blood_type = $1)
  and ($2::timestamptz is null or searched_at >= $2)
  and ($3::timestamptz is null or searched_at <= $3)
order by searched_at desc nulls last
limit $4::int;
`
